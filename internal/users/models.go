// Package users implements the secondary per-user record store: accounts,
// password hashes, and enrollment bookkeeping. Records live as one JSON list
// in their own document-store slot, independent of the catalog document.
// Enrollment courseIds are soft foreign keys into the catalog; the storage
// layer does not enforce them.
package users

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentEnrolled EnrollmentStatus = "enrolled"
)

type Enrollment struct {
	CourseID int64            `json:"courseId"`
	Status   EnrollmentStatus `json:"status"`
}

// User is an account record. Email is the identity and is matched
// case-insensitively everywhere.
type User struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"passwordHash"`
	Enrollments  []Enrollment `json:"enrollments"`
}

// storedUser carries the legacy on-disk fields next to the current ones so a
// one-time record migration can run on load: plaintext passwords become
// bcrypt hashes and enrolledCourses ids become enrolled Enrollments.
type storedUser struct {
	User
	Password        string  `json:"password,omitempty"`
	EnrolledCourses []int64 `json:"enrolledCourses,omitempty"`
}
