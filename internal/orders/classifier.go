package orders

import "time"

// Bucket is the day-relative display group of an order.
type Bucket int

const (
	BucketToday Bucket = iota
	BucketYesterday
	BucketOlder
)

func (b Bucket) String() string {
	switch b {
	case BucketToday:
		return "today"
	case BucketYesterday:
		return "yesterday"
	default:
		return "older"
	}
}

// Groups holds orders partitioned by bucket, each in input order.
type Groups struct {
	Today     []Order
	Yesterday []Order
	Older     []Order
}

// Classifier buckets orders against the local calendar.
type Classifier struct {
	now func() time.Time
	loc *time.Location
}

// NewClassifier returns a classifier for loc; nil means time.Local.
func NewClassifier(loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{now: time.Now, loc: loc}
}

// Now reads the clock. Callers read it once per pass.
func (c *Classifier) Now() time.Time {
	return c.now()
}

// Bucket places createdAt relative to now. Yesterday is the calendar day
// before now, across month and year boundaries.
func (c *Classifier) Bucket(createdAt, now time.Time) Bucket {
	y, m, d := createdAt.In(c.loc).Date()
	ny, nm, nd := now.In(c.loc).Date()

	if y == ny && m == nm && d == nd {
		return BucketToday
	}

	py, pm, pd := time.Date(ny, nm, nd-1, 12, 0, 0, 0, c.loc).Date()
	if y == py && m == pm && d == pd {
		return BucketYesterday
	}

	return BucketOlder
}

// Classify partitions orders against a single reading of the clock.
func (c *Classifier) Classify(orders []Order) Groups {
	return c.ClassifyAt(orders, c.Now())
}

func (c *Classifier) ClassifyAt(orders []Order, now time.Time) Groups {
	var groups Groups
	for _, o := range orders {
		switch c.Bucket(o.CreatedAt, now) {
		case BucketToday:
			groups.Today = append(groups.Today, o)
		case BucketYesterday:
			groups.Yesterday = append(groups.Yesterday, o)
		default:
			groups.Older = append(groups.Older, o)
		}
	}
	return groups
}
