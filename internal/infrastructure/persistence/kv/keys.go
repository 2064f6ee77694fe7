package kv

// DefaultPrefix is the namespace of the persisted collections.
const DefaultPrefix = "sms"

// Collection suffixes appended to the namespace prefix.
const (
	SuffixStudents   = "_students"
	SuffixCourses    = "_courses"
	SuffixAttendance = "_attendance"
	SuffixPayments   = "_payments"
)

// Keys names the four persisted collections under one namespace.
type Keys struct {
	Prefix string
}

// NewKeys returns the key set for prefix, or DefaultPrefix when empty.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{Prefix: prefix}
}

func (k Keys) Students() string   { return k.Prefix + SuffixStudents }
func (k Keys) Courses() string    { return k.Prefix + SuffixCourses }
func (k Keys) Attendance() string { return k.Prefix + SuffixAttendance }
func (k Keys) Payments() string   { return k.Prefix + SuffixPayments }

// All returns every collection key.
func (k Keys) All() []string {
	return []string{k.Students(), k.Courses(), k.Attendance(), k.Payments()}
}
