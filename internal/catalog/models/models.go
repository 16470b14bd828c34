// Package models defines the catalog document aggregate persisted in the
// document store. Binary content never lives here; entities reference blobs
// through opaque *Key fields owned by the blob store.
package models

import "time"

// Lecture belongs to a course. Video content is either an external link
// (VideoURL) or an uploaded blob (VideoKey), never both.
type Lecture struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl,omitempty"`
	VideoKey    string `json:"videoKey,omitempty"`
	PDFKey      string `json:"pdfKey,omitempty"`
	PDFFileName string `json:"pdfFileName,omitempty"`
}

type Course struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Instructor             string    `json:"instructor"`
	Duration               string    `json:"duration"`
	Fee                    float64   `json:"fee"`
	OriginalFee            *float64  `json:"originalFee,omitempty"`
	ImageKey               string    `json:"imageKey,omitempty"`
	Lectures               []Lecture `json:"lectures"`
	RegistrationStartDate  string    `json:"registrationStartDate"`
	RegistrationEndDate    string    `json:"registrationEndDate"`
	ClassStartDate         string    `json:"classStartDate"`
	ValidityEndDate        string    `json:"validityEndDate"`
	Language               string    `json:"language"`
	CourseType             string    `json:"courseType"`
	HasDownloadableContent bool      `json:"hasDownloadableContent"`
	ValidityPeriod         string    `json:"validityPeriod"`
}

type Tutor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	Qualifications string `json:"qualifications"`
	Experience     string `json:"experience"`
	PhotoKey       string `json:"photoKey,omitempty"`
}

// VerificationRequest is a pending payment verification. UserName and
// CourseName are denormalized display copies; UserEmail/CourseID are the
// soft foreign keys into the user store and the courses collection.
type VerificationRequest struct {
	ID            int64  `json:"id"`
	UserEmail     string `json:"userEmail"`
	UserName      string `json:"userName"`
	CourseID      int64  `json:"courseId"`
	CourseName    string `json:"courseName"`
	TransactionID string `json:"transactionId"`
	ScreenshotKey string `json:"screenshotKey"`
}

type MessageStatus string

const (
	MessageUnread MessageStatus = "unread"
	MessageRead   MessageStatus = "read"
)

type ContactMessage struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Message    string        `json:"message"`
	Status     MessageStatus `json:"status"`
	ReceivedAt time.Time     `json:"receivedAt"`
}

type GeneralDownload struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PDFKey      string `json:"pdfKey"`
	PDFFileName string `json:"pdfFileName"`
}

type Syllabus struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageKey    string `json:"imageKey,omitempty"`
	PDFKey      string `json:"pdfKey,omitempty"`
	PDFFileName string `json:"pdfFileName,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// NavItem.Order is a dense 0..N-1 rank matching display order; reorder
// operations rewrite every rank.
type NavItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

type HomeContent struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Intro       string `json:"intro"`
	BannerImage string `json:"bannerImage"`
}

type PaymentDetails struct {
	UPIID     string `json:"upiId"`
	UPINumber string `json:"upiNumber"`
}

// Document is the whole catalog aggregate: one record, read and written
// wholesale on every mutation.
type Document struct {
	ClassroomName        string                `json:"classroomName"`
	Home                 HomeContent           `json:"home"`
	PaymentDetails       PaymentDetails        `json:"paymentDetails"`
	Courses              []Course              `json:"courses"`
	Tutors               []Tutor               `json:"tutors"`
	PendingVerifications []VerificationRequest `json:"pendingVerifications"`
	ContactMessages      []ContactMessage      `json:"contactMessages"`
	GeneralDownloads     []GeneralDownload     `json:"generalDownloads"`
	Syllabuses           []Syllabus            `json:"syllabuses"`
	NavItems             []NavItem             `json:"navItems"`
}

// FindCourse returns a pointer into the document's courses, or nil.
func (d *Document) FindCourse(id int64) *Course {
	for i := range d.Courses {
		if d.Courses[i].ID == id {
			return &d.Courses[i]
		}
	}
	return nil
}

// BlobKeys returns every non-empty blob key owned by the course, including
// keys owned by its lectures.
func (c *Course) BlobKeys() []string {
	var keys []string
	if c.ImageKey != "" {
		keys = append(keys, c.ImageKey)
	}
	for _, l := range c.Lectures {
		keys = append(keys, l.BlobKeys()...)
	}
	return keys
}

func (l *Lecture) BlobKeys() []string {
	var keys []string
	if l.VideoKey != "" {
		keys = append(keys, l.VideoKey)
	}
	if l.PDFKey != "" {
		keys = append(keys, l.PDFKey)
	}
	return keys
}

func (s *Syllabus) BlobKeys() []string {
	var keys []string
	if s.ImageKey != "" {
		keys = append(keys, s.ImageKey)
	}
	if s.PDFKey != "" {
		keys = append(keys, s.PDFKey)
	}
	return keys
}
