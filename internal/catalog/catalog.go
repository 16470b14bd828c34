// Package catalog exposes the mutation surface over the catalog document.
// Every write is a whole-document read-modify-write serialized by a single
// mutex, so each operation applies against the latest committed state and
// concurrent mutations are never lost.
//
// Blob ordering rule: new blobs are written before the document references
// them, superseded blobs are deleted only after the save that unreferences
// them has committed. A crash in between leaves an orphaned blob, never a
// dangling reference.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/edkeeper/classvault/internal/blob"
	"github.com/edkeeper/classvault/internal/catalog/migrate"
	"github.com/edkeeper/classvault/internal/catalog/models"
	"github.com/edkeeper/classvault/internal/docstore"
	"github.com/edkeeper/classvault/internal/logging"
	"github.com/edkeeper/classvault/internal/shared"
)

// Enrollments is the slice of the user store the verification flow needs.
type Enrollments interface {
	AddPendingEnrollment(ctx context.Context, email string, courseID int64) error
	PromoteToEnrolled(ctx context.Context, email string, courseID int64) error
	RemovePendingEnrollment(ctx context.Context, email string, courseID int64) error
}

// Upload is a raw binary payload plus a suggested filename. The filename is
// display metadata only; the blob store assigns its own keys.
type Upload struct {
	Data     []byte
	Filename string
}

// Applied is the result of a committed mutation. FailedDeletes lists blob
// keys this mutation unreferenced but could not remove; they are orphans, not
// corruption, since keys are never reused.
type Applied struct {
	Doc           *models.Document
	FailedDeletes []string
}

type Catalog struct {
	mu    sync.Mutex
	docs  docstore.Store
	blobs blob.Store
	users Enrollments
	log   logging.Logger
}

func New(docs docstore.Store, blobs blob.Store, users Enrollments, log logging.Logger) *Catalog {
	return &Catalog{docs: docs, blobs: blobs, users: users, log: log}
}

// mutation tracks the blob side effects of one operation: fresh keys to roll
// back if the operation fails before its save, and superseded keys to drop
// after the save commits.
type mutation struct {
	c       *Catalog
	created []string
	removed []string
}

// put writes the upload and records the key for rollback. A nil upload is a
// no-op returning "".
func (m *mutation) put(ctx context.Context, up *Upload) (string, error) {
	if up == nil || len(up.Data) == 0 {
		return "", nil
	}
	key, err := m.c.blobs.Put(ctx, up.Data)
	if err != nil {
		return "", err
	}
	m.created = append(m.created, key)
	return key, nil
}

// drop schedules keys for deletion after the document save commits. Empty
// keys are skipped.
func (m *mutation) drop(keys ...string) {
	for _, key := range keys {
		if key != "" {
			m.removed = append(m.removed, key)
		}
	}
}

// rollback removes blobs written by a mutation that never committed.
func (m *mutation) rollback(ctx context.Context) {
	for _, key := range m.created {
		if err := m.c.blobs.Delete(ctx, key); err != nil {
			m.c.log.Warn(ctx, "failed to roll back blob from aborted mutation", "key", key, "error", err)
		}
	}
}

// sweep deletes the superseded blobs, best effort, and returns the keys that
// could not be removed.
func (m *mutation) sweep(ctx context.Context) []string {
	var failed []string
	for _, key := range m.removed {
		if err := m.c.blobs.Delete(ctx, key); err != nil {
			m.c.log.Warn(ctx, "failed to delete superseded blob", "key", key, "error", err)
			failed = append(failed, key)
		}
	}
	return failed
}

func (c *Catalog) load(ctx context.Context) (*models.Document, error) {
	raw, err := c.docs.Load(ctx, docstore.SlotCatalog)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		// Sessions running on unsaved defaults after a partial migration
		// land here; mutating such a session makes the defaults durable.
		doc := models.DefaultDocument()
		migrate.Normalize(doc)
		return doc, nil
	}
	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}
	migrate.Normalize(&doc)
	return &doc, nil
}

func (c *Catalog) save(ctx context.Context, doc *models.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode catalog document: %w", err)
	}
	return c.docs.Save(ctx, docstore.SlotCatalog, raw)
}

// mutate runs one serialized read → blob puts → apply → save → blob deletes
// sequence. apply receives the latest committed document and mutates it in
// place, using m for blob side effects.
func (c *Catalog) mutate(ctx context.Context, apply func(m *mutation, doc *models.Document) error) (*Applied, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	m := &mutation{c: c}
	if err := apply(m, doc); err != nil {
		m.rollback(ctx)
		return nil, err
	}
	if err := c.save(ctx, doc); err != nil {
		m.rollback(ctx)
		return nil, err
	}

	return &Applied{Doc: doc, FailedDeletes: m.sweep(ctx)}, nil
}

// Snapshot returns the latest committed document.
func (c *Catalog) Snapshot(ctx context.Context) (*models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// nextID assigns creation ids as largest-existing+1, computed inside the
// serialized section so back-to-back creates never collide.
func nextID[E any](items []E, id func(E) int64) int64 {
	var max int64
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}

func nextLectureID(doc *models.Document) int64 {
	var max int64
	for _, c := range doc.Courses {
		for _, l := range c.Lectures {
			if l.ID > max {
				max = l.ID
			}
		}
	}
	return max + 1
}

// --- Courses ---

func (c *Catalog) AddCourse(ctx context.Context, course models.Course, image *Upload) (*Applied, error) {
	if course.Name == "" {
		return nil, fmt.Errorf("%w: course name is required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		key, err := m.put(ctx, image)
		if err != nil {
			return fmt.Errorf("failed to store course image: %w", err)
		}
		course.ID = nextID(doc.Courses, func(c models.Course) int64 { return c.ID })
		course.ImageKey = key
		course.Lectures = []models.Lecture{}
		doc.Courses = append(doc.Courses, course)
		return nil
	})
}

// UpdateCourse replaces the course's scalar fields. Lectures are managed by
// the lecture operations and are carried over untouched; the image is
// replaced only when a new upload is given.
func (c *Catalog) UpdateCourse(ctx context.Context, course models.Course, image *Upload) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		existing := doc.FindCourse(course.ID)
		if existing == nil {
			return fmt.Errorf("%w: course %d", shared.ErrNotFound, course.ID)
		}
		course.Lectures = existing.Lectures
		course.ImageKey = existing.ImageKey
		if image != nil {
			key, err := m.put(ctx, image)
			if err != nil {
				return fmt.Errorf("failed to store course image: %w", err)
			}
			m.drop(existing.ImageKey)
			course.ImageKey = key
		}
		*existing = course
		return nil
	})
}

// DeleteCourse removes the course and cascades to every blob it owns: the
// image plus each lecture's video and pdf.
func (c *Catalog) DeleteCourse(ctx context.Context, id int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.Courses {
			if doc.Courses[i].ID == id {
				m.drop(doc.Courses[i].BlobKeys()...)
				doc.Courses = append(doc.Courses[:i], doc.Courses[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: course %d", shared.ErrNotFound, id)
	})
}

// --- Tutors ---

func (c *Catalog) AddTutor(ctx context.Context, tutor models.Tutor, photo *Upload) (*Applied, error) {
	if tutor.Name == "" {
		return nil, fmt.Errorf("%w: tutor name is required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		key, err := m.put(ctx, photo)
		if err != nil {
			return fmt.Errorf("failed to store tutor photo: %w", err)
		}
		tutor.ID = nextID(doc.Tutors, func(t models.Tutor) int64 { return t.ID })
		tutor.PhotoKey = key
		doc.Tutors = append(doc.Tutors, tutor)
		return nil
	})
}

func (c *Catalog) UpdateTutor(ctx context.Context, tutor models.Tutor, photo *Upload) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.Tutors {
			if doc.Tutors[i].ID != tutor.ID {
				continue
			}
			tutor.PhotoKey = doc.Tutors[i].PhotoKey
			if photo != nil {
				key, err := m.put(ctx, photo)
				if err != nil {
					return fmt.Errorf("failed to store tutor photo: %w", err)
				}
				m.drop(doc.Tutors[i].PhotoKey)
				tutor.PhotoKey = key
			}
			doc.Tutors[i] = tutor
			return nil
		}
		return fmt.Errorf("%w: tutor %d", shared.ErrNotFound, tutor.ID)
	})
}

func (c *Catalog) DeleteTutor(ctx context.Context, id int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.Tutors {
			if doc.Tutors[i].ID == id {
				m.drop(doc.Tutors[i].PhotoKey)
				doc.Tutors = append(doc.Tutors[:i], doc.Tutors[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: tutor %d", shared.ErrNotFound, id)
	})
}

// --- Lectures ---

// AddLecture appends a lecture to the course. Video content is either the
// upload (stored as a blob) or lecture.VideoURL as an external link; an
// upload wins when both are given.
func (c *Catalog) AddLecture(ctx context.Context, courseID int64, lecture models.Lecture, video, pdf *Upload) (*Applied, error) {
	if lecture.Title == "" {
		return nil, fmt.Errorf("%w: lecture title is required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		course := doc.FindCourse(courseID)
		if course == nil {
			return fmt.Errorf("%w: course %d", shared.ErrNotFound, courseID)
		}
		lecture.ID = nextLectureID(doc)
		if video != nil {
			key, err := m.put(ctx, video)
			if err != nil {
				return fmt.Errorf("failed to store lecture video: %w", err)
			}
			lecture.VideoKey = key
			lecture.VideoURL = ""
		}
		if pdf != nil {
			key, err := m.put(ctx, pdf)
			if err != nil {
				return fmt.Errorf("failed to store lecture pdf: %w", err)
			}
			lecture.PDFKey = key
			lecture.PDFFileName = pdf.Filename
		}
		course.Lectures = append(course.Lectures, lecture)
		return nil
	})
}

// UpdateLecture replaces title, description and video content. The pdf
// attachment has its own operations and is carried over untouched.
func (c *Catalog) UpdateLecture(ctx context.Context, courseID int64, lecture models.Lecture, video *Upload) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		existing, err := findLecture(doc, courseID, lecture.ID)
		if err != nil {
			return err
		}
		lecture.PDFKey = existing.PDFKey
		lecture.PDFFileName = existing.PDFFileName
		lecture.VideoKey = existing.VideoKey
		switch {
		case video != nil:
			key, err := m.put(ctx, video)
			if err != nil {
				return fmt.Errorf("failed to store lecture video: %w", err)
			}
			m.drop(existing.VideoKey)
			lecture.VideoKey = key
			lecture.VideoURL = ""
		case lecture.VideoURL != "":
			// Switching to an external link supersedes any stored video.
			m.drop(existing.VideoKey)
			lecture.VideoKey = ""
		}
		*existing = lecture
		return nil
	})
}

func (c *Catalog) DeleteLecture(ctx context.Context, courseID, lectureID int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		course := doc.FindCourse(courseID)
		if course == nil {
			return fmt.Errorf("%w: course %d", shared.ErrNotFound, courseID)
		}
		for i := range course.Lectures {
			if course.Lectures[i].ID == lectureID {
				m.drop(course.Lectures[i].BlobKeys()...)
				course.Lectures = append(course.Lectures[:i], course.Lectures[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: lecture %d in course %d", shared.ErrNotFound, lectureID, courseID)
	})
}

func (c *Catalog) UpdateLecturePDF(ctx context.Context, courseID, lectureID int64, pdf Upload) (*Applied, error) {
	if len(pdf.Data) == 0 {
		return nil, fmt.Errorf("%w: pdf payload is required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		lecture, err := findLecture(doc, courseID, lectureID)
		if err != nil {
			return err
		}
		key, err := m.put(ctx, &pdf)
		if err != nil {
			return fmt.Errorf("failed to store lecture pdf: %w", err)
		}
		m.drop(lecture.PDFKey)
		lecture.PDFKey = key
		lecture.PDFFileName = pdf.Filename
		return nil
	})
}

func (c *Catalog) RemoveLecturePDF(ctx context.Context, courseID, lectureID int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		lecture, err := findLecture(doc, courseID, lectureID)
		if err != nil {
			return err
		}
		m.drop(lecture.PDFKey)
		lecture.PDFKey = ""
		lecture.PDFFileName = ""
		return nil
	})
}

func findLecture(doc *models.Document, courseID, lectureID int64) (*models.Lecture, error) {
	course := doc.FindCourse(courseID)
	if course == nil {
		return nil, fmt.Errorf("%w: course %d", shared.ErrNotFound, courseID)
	}
	for i := range course.Lectures {
		if course.Lectures[i].ID == lectureID {
			return &course.Lectures[i], nil
		}
	}
	return nil, fmt.Errorf("%w: lecture %d in course %d", shared.ErrNotFound, lectureID, courseID)
}

// --- Verification requests ---

// AddVerificationRequest files a payment verification and records a pending
// enrollment for the user. The document write commits first; a failed
// enrollment write afterwards returns the applied result together with an
// ErrCrossStoreInconsistency so the caller can reconcile.
func (c *Catalog) AddVerificationRequest(ctx context.Context, req models.VerificationRequest, screenshot Upload) (*Applied, error) {
	if req.UserEmail == "" || req.TransactionID == "" {
		return nil, fmt.Errorf("%w: user email and transaction id are required", shared.ErrValidation)
	}
	if len(screenshot.Data) == 0 {
		return nil, fmt.Errorf("%w: payment screenshot is required", shared.ErrValidation)
	}
	applied, err := c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		course := doc.FindCourse(req.CourseID)
		if course == nil {
			return fmt.Errorf("%w: course %d", shared.ErrNotFound, req.CourseID)
		}
		key, err := m.put(ctx, &screenshot)
		if err != nil {
			return fmt.Errorf("failed to store payment screenshot: %w", err)
		}
		req.ID = nextID(doc.PendingVerifications, func(v models.VerificationRequest) int64 { return v.ID })
		req.CourseName = course.Name
		req.ScreenshotKey = key
		doc.PendingVerifications = append(doc.PendingVerifications, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := c.users.AddPendingEnrollment(ctx, req.UserEmail, req.CourseID); err != nil {
		return applied, fmt.Errorf("%w: verification %d filed but pending enrollment not recorded: %v",
			shared.ErrCrossStoreInconsistency, req.ID, err)
	}
	return applied, nil
}

// ApproveVerification removes the request, deletes its screenshot, and
// promotes the matching pending enrollment to enrolled.
func (c *Catalog) ApproveVerification(ctx context.Context, id int64) (*Applied, error) {
	return c.resolveVerification(ctx, id, c.users.PromoteToEnrolled, "promoted")
}

// RejectVerification removes the request, deletes its screenshot, and drops
// the matching pending enrollment.
func (c *Catalog) RejectVerification(ctx context.Context, id int64) (*Applied, error) {
	return c.resolveVerification(ctx, id, c.users.RemovePendingEnrollment, "removed")
}

func (c *Catalog) resolveVerification(ctx context.Context, id int64, update func(context.Context, string, int64) error, action string) (*Applied, error) {
	var email string
	var courseID int64
	applied, err := c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.PendingVerifications {
			if doc.PendingVerifications[i].ID != id {
				continue
			}
			email = doc.PendingVerifications[i].UserEmail
			courseID = doc.PendingVerifications[i].CourseID
			m.drop(doc.PendingVerifications[i].ScreenshotKey)
			doc.PendingVerifications = append(doc.PendingVerifications[:i], doc.PendingVerifications[i+1:]...)
			return nil
		}
		return fmt.Errorf("%w: verification %d", shared.ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	if err := update(ctx, email, courseID); err != nil {
		return applied, fmt.Errorf("%w: verification %d resolved but enrollment not %s: %v",
			shared.ErrCrossStoreInconsistency, id, action, err)
	}
	return applied, nil
}

// --- Contact messages ---

func (c *Catalog) AddContactMessage(ctx context.Context, name, email, message string) (*Applied, error) {
	if name == "" || email == "" || message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		doc.ContactMessages = append(doc.ContactMessages, models.ContactMessage{
			ID:         nextID(doc.ContactMessages, func(m models.ContactMessage) int64 { return m.ID }),
			Name:       name,
			Email:      email,
			Message:    message,
			Status:     models.MessageUnread,
			ReceivedAt: time.Now().UTC(),
		})
		return nil
	})
}

func (c *Catalog) UpdateContactMessageStatus(ctx context.Context, id int64, status models.MessageStatus) (*Applied, error) {
	if status != models.MessageUnread && status != models.MessageRead {
		return nil, fmt.Errorf("%w: unknown message status %q", shared.ErrValidation, status)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.ContactMessages {
			if doc.ContactMessages[i].ID == id {
				doc.ContactMessages[i].Status = status
				return nil
			}
		}
		return fmt.Errorf("%w: contact message %d", shared.ErrNotFound, id)
	})
}

func (c *Catalog) DeleteContactMessage(ctx context.Context, id int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.ContactMessages {
			if doc.ContactMessages[i].ID == id {
				doc.ContactMessages = append(doc.ContactMessages[:i], doc.ContactMessages[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: contact message %d", shared.ErrNotFound, id)
	})
}

// --- General downloads ---

func (c *Catalog) AddGeneralDownload(ctx context.Context, title string, pdf Upload) (*Applied, error) {
	if title == "" || len(pdf.Data) == 0 {
		return nil, fmt.Errorf("%w: title and pdf payload are required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		key, err := m.put(ctx, &pdf)
		if err != nil {
			return fmt.Errorf("failed to store download pdf: %w", err)
		}
		doc.GeneralDownloads = append(doc.GeneralDownloads, models.GeneralDownload{
			ID:          nextID(doc.GeneralDownloads, func(d models.GeneralDownload) int64 { return d.ID }),
			Title:       title,
			PDFKey:      key,
			PDFFileName: pdf.Filename,
		})
		return nil
	})
}

func (c *Catalog) UpdateGeneralDownload(ctx context.Context, id int64, title string, pdf *Upload) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.GeneralDownloads {
			if doc.GeneralDownloads[i].ID != id {
				continue
			}
			if title != "" {
				doc.GeneralDownloads[i].Title = title
			}
			if pdf != nil {
				key, err := m.put(ctx, pdf)
				if err != nil {
					return fmt.Errorf("failed to store download pdf: %w", err)
				}
				m.drop(doc.GeneralDownloads[i].PDFKey)
				doc.GeneralDownloads[i].PDFKey = key
				doc.GeneralDownloads[i].PDFFileName = pdf.Filename
			}
			return nil
		}
		return fmt.Errorf("%w: download %d", shared.ErrNotFound, id)
	})
}

func (c *Catalog) DeleteGeneralDownload(ctx context.Context, id int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.GeneralDownloads {
			if doc.GeneralDownloads[i].ID == id {
				m.drop(doc.GeneralDownloads[i].PDFKey)
				doc.GeneralDownloads = append(doc.GeneralDownloads[:i], doc.GeneralDownloads[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: download %d", shared.ErrNotFound, id)
	})
}

// --- Syllabuses ---

func (c *Catalog) AddSyllabus(ctx context.Context, syllabus models.Syllabus, image, pdf *Upload) (*Applied, error) {
	if syllabus.Title == "" {
		return nil, fmt.Errorf("%w: syllabus title is required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		imageKey, err := m.put(ctx, image)
		if err != nil {
			return fmt.Errorf("failed to store syllabus image: %w", err)
		}
		pdfKey, err := m.put(ctx, pdf)
		if err != nil {
			return fmt.Errorf("failed to store syllabus pdf: %w", err)
		}
		syllabus.ID = nextID(doc.Syllabuses, func(s models.Syllabus) int64 { return s.ID })
		syllabus.ImageKey = imageKey
		syllabus.PDFKey = pdfKey
		if pdf != nil {
			syllabus.PDFFileName = pdf.Filename
		}
		doc.Syllabuses = append(doc.Syllabuses, syllabus)
		return nil
	})
}

func (c *Catalog) UpdateSyllabus(ctx context.Context, syllabus models.Syllabus, image, pdf *Upload) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.Syllabuses {
			if doc.Syllabuses[i].ID != syllabus.ID {
				continue
			}
			syllabus.ImageKey = doc.Syllabuses[i].ImageKey
			syllabus.PDFKey = doc.Syllabuses[i].PDFKey
			if syllabus.PDFFileName == "" {
				syllabus.PDFFileName = doc.Syllabuses[i].PDFFileName
			}
			if image != nil {
				key, err := m.put(ctx, image)
				if err != nil {
					return fmt.Errorf("failed to store syllabus image: %w", err)
				}
				m.drop(doc.Syllabuses[i].ImageKey)
				syllabus.ImageKey = key
			}
			if pdf != nil {
				key, err := m.put(ctx, pdf)
				if err != nil {
					return fmt.Errorf("failed to store syllabus pdf: %w", err)
				}
				m.drop(doc.Syllabuses[i].PDFKey)
				syllabus.PDFKey = key
				syllabus.PDFFileName = pdf.Filename
			}
			doc.Syllabuses[i] = syllabus
			return nil
		}
		return fmt.Errorf("%w: syllabus %d", shared.ErrNotFound, syllabus.ID)
	})
}

func (c *Catalog) DeleteSyllabus(ctx context.Context, id int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		for i := range doc.Syllabuses {
			if doc.Syllabuses[i].ID == id {
				m.drop(doc.Syllabuses[i].BlobKeys()...)
				doc.Syllabuses = append(doc.Syllabuses[:i], doc.Syllabuses[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: syllabus %d", shared.ErrNotFound, id)
	})
}

// --- Navigation and site configuration ---

// UpdateNavOrder rewrites every NavItem.Order with the dense 0..N-1 rank
// implied by orderedIDs, which must list every nav item exactly once. No
// other field is touched.
func (c *Catalog) UpdateNavOrder(ctx context.Context, orderedIDs []int64) (*Applied, error) {
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		if len(orderedIDs) != len(doc.NavItems) {
			return fmt.Errorf("%w: order lists %d items, catalog has %d", shared.ErrValidation, len(orderedIDs), len(doc.NavItems))
		}
		byID := make(map[int64]models.NavItem, len(doc.NavItems))
		for _, item := range doc.NavItems {
			byID[item.ID] = item
		}
		reordered := make([]models.NavItem, 0, len(orderedIDs))
		for rank, id := range orderedIDs {
			item, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: unknown nav item %d", shared.ErrValidation, id)
			}
			delete(byID, id)
			item.Order = rank
			reordered = append(reordered, item)
		}
		doc.NavItems = reordered
		return nil
	})
}

// SiteConfig is the non-entity portion of the document: classroom branding,
// the home page copy block, and UPI payment details.
type SiteConfig struct {
	ClassroomName  string
	Home           models.HomeContent
	PaymentDetails models.PaymentDetails
}

func (c *Catalog) UpdateSiteConfig(ctx context.Context, cfg SiteConfig) (*Applied, error) {
	if cfg.ClassroomName == "" {
		return nil, fmt.Errorf("%w: classroom name is required", shared.ErrValidation)
	}
	return c.mutate(ctx, func(m *mutation, doc *models.Document) error {
		doc.ClassroomName = cfg.ClassroomName
		doc.Home = cfg.Home
		doc.PaymentDetails = cfg.PaymentDetails
		return nil
	})
}
