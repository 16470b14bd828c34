// Package migrate converges the installation to the current catalog schema.
// Three states exist at startup: a current-schema document, a legacy document
// with inline base64 binaries, or nothing (fresh install). The engine runs
// once, before anything else touches the document.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edkeeper/classvault/internal/blob"
	"github.com/edkeeper/classvault/internal/catalog/models"
	"github.com/edkeeper/classvault/internal/docstore"
	"github.com/edkeeper/classvault/internal/logging"
	"github.com/edkeeper/classvault/internal/shared"
)

type Engine struct {
	docs  docstore.Store
	blobs blob.Store
	log   logging.Logger
}

func NewEngine(docs docstore.Store, blobs blob.Store, log logging.Logger) *Engine {
	return &Engine{docs: docs, blobs: blobs, log: log}
}

// Run converges to the current schema and returns the document to use for
// this session. The returned document is always usable; when the error wraps
// shared.ErrPartialMigration the legacy record was preserved for a future
// retry and the session proceeds on the compiled-in defaults (not saved, so
// the retry still sees the legacy state).
func (e *Engine) Run(ctx context.Context) (*models.Document, error) {
	current, err := e.docs.Load(ctx, docstore.SlotCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if current != nil {
		var doc models.Document
		uerr := json.Unmarshal(current, &doc)
		if uerr == nil {
			backfilled := Normalize(&doc)
			for _, collection := range backfilled {
				e.log.Warn(ctx, "catalog document was missing a collection, backfilled", "collection", collection)
			}
			return &doc, nil
		}
		// A present-but-unreadable current document is treated like the
		// legacy paths below rather than crashing the session.
		e.log.Error(ctx, "catalog document is unreadable, falling back", "error", uerr)
	}

	legacy, err := e.docs.Load(ctx, docstore.SlotCatalogLegacy)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy catalog: %w", err)
	}

	if legacy != nil {
		doc, err := e.migrateLegacy(ctx, legacy)
		if err != nil {
			wrapped := fmt.Errorf("%w: %v", shared.ErrPartialMigration, err)
			e.log.Error(ctx, "legacy migration aborted, session continues on defaults", "error", wrapped)
			return models.DefaultDocument(), wrapped
		}
		e.log.Info(ctx, "legacy catalog migrated")
		return doc, nil
	}

	// Fresh install: synthesize and persist the seed catalog.
	doc := models.DefaultDocument()
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode default catalog: %w", err)
	}
	if err := e.docs.Save(ctx, docstore.SlotCatalog, payload); err != nil {
		return nil, fmt.Errorf("failed to save default catalog: %w", err)
	}
	e.log.Info(ctx, "seeded default catalog")
	return doc, nil
}

// Legacy entity shapes: the current struct plus the inline fields dropped by
// the migration. The embedded structs keep the field sets in one place.

type legacyLecture struct {
	models.Lecture
	PDFURL string `json:"pdfUrl"`
}

type legacyCourse struct {
	models.Course
	Image    string          `json:"image"`
	Lectures []legacyLecture `json:"lectures"`
}

type legacyTutor struct {
	models.Tutor
	Photo string `json:"photo"`
}

type legacyVerification struct {
	models.VerificationRequest
	ScreenshotDataURL string `json:"screenshotDataUrl"`
}

type legacyDocument struct {
	ClassroomName        string                   `json:"classroomName"`
	Home                 models.HomeContent       `json:"home"`
	PaymentDetails       models.PaymentDetails    `json:"paymentDetails"`
	Courses              []legacyCourse           `json:"courses"`
	Tutors               []legacyTutor            `json:"tutors"`
	PendingVerifications []legacyVerification     `json:"pendingVerifications"`
	ContactMessages      []models.ContactMessage  `json:"contactMessages"`
	GeneralDownloads     []models.GeneralDownload `json:"generalDownloads"`
	Syllabuses           []models.Syllabus        `json:"syllabuses"`
	NavItems             []models.NavItem         `json:"navItems"`
}

// externalize moves one inline data URL into the blob store and returns the
// assigned key. Empty and external (non-data) values return "".
func (e *Engine) externalize(ctx context.Context, inline string) (string, error) {
	if inline == "" || !isDataURL(inline) {
		return "", nil
	}
	data, err := decodeDataURL(inline)
	if err != nil {
		return "", err
	}
	key, err := e.blobs.Put(ctx, data)
	if err != nil {
		return "", err
	}
	return key, nil
}

// migrateLegacy transforms the legacy inline-encoded document into the
// current key-referencing schema. Blobs are written first; the current
// document is saved and the legacy slot deleted in one transaction, so a
// failure anywhere leaves the legacy record authoritative. Blobs written by
// a failed attempt stay behind as unreferenced leftovers; keys are never
// reused, so they are a leak, not a corruption.
func (e *Engine) migrateLegacy(ctx context.Context, raw []byte) (*models.Document, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy document: %w", err)
	}

	doc := &models.Document{
		ClassroomName:        legacy.ClassroomName,
		Home:                 legacy.Home,
		PaymentDetails:       legacy.PaymentDetails,
		ContactMessages:      legacy.ContactMessages,
		GeneralDownloads:     legacy.GeneralDownloads,
		Syllabuses:           legacy.Syllabuses,
		NavItems:             legacy.NavItems,
		PendingVerifications: make([]models.VerificationRequest, 0, len(legacy.PendingVerifications)),
		Courses:              make([]models.Course, 0, len(legacy.Courses)),
		Tutors:               make([]models.Tutor, 0, len(legacy.Tutors)),
	}

	for _, lc := range legacy.Courses {
		course := lc.Course
		imageKey, err := e.externalize(ctx, lc.Image)
		if err != nil {
			return nil, fmt.Errorf("course %d image: %w", course.ID, err)
		}
		course.ImageKey = imageKey

		course.Lectures = make([]models.Lecture, 0, len(lc.Lectures))
		for _, ll := range lc.Lectures {
			lecture := ll.Lecture
			// Inline video payloads move to the blob store; external links
			// (e.g. YouTube) stay on VideoURL.
			if isDataURL(lecture.VideoURL) {
				videoKey, err := e.externalize(ctx, lecture.VideoURL)
				if err != nil {
					return nil, fmt.Errorf("lecture %d video: %w", lecture.ID, err)
				}
				lecture.VideoKey = videoKey
				lecture.VideoURL = ""
			}
			pdfKey, err := e.externalize(ctx, ll.PDFURL)
			if err != nil {
				return nil, fmt.Errorf("lecture %d pdf: %w", lecture.ID, err)
			}
			if pdfKey != "" {
				lecture.PDFKey = pdfKey
			}
			course.Lectures = append(course.Lectures, lecture)
		}
		doc.Courses = append(doc.Courses, course)
	}

	for _, lt := range legacy.Tutors {
		tutor := lt.Tutor
		photoKey, err := e.externalize(ctx, lt.Photo)
		if err != nil {
			return nil, fmt.Errorf("tutor %d photo: %w", tutor.ID, err)
		}
		tutor.PhotoKey = photoKey
		doc.Tutors = append(doc.Tutors, tutor)
	}

	for _, lv := range legacy.PendingVerifications {
		verification := lv.VerificationRequest
		screenshotKey, err := e.externalize(ctx, lv.ScreenshotDataURL)
		if err != nil {
			return nil, fmt.Errorf("verification %d screenshot: %w", verification.ID, err)
		}
		if screenshotKey != "" {
			verification.ScreenshotKey = screenshotKey
		}
		doc.PendingVerifications = append(doc.PendingVerifications, verification)
	}

	Normalize(doc)

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode migrated document: %w", err)
	}
	if err := e.docs.SaveAndDelete(ctx, docstore.SlotCatalog, payload, docstore.SlotCatalogLegacy); err != nil {
		return nil, fmt.Errorf("failed to commit migrated document: %w", err)
	}

	return doc, nil
}

// Normalize backfills fields introduced by later schema revisions so callers
// never see nil collections. It returns the names of whole collections that
// had to be backfilled; per-entity field defaults are applied silently.
func Normalize(doc *models.Document) []string {
	var backfilled []string

	if doc.Courses == nil {
		doc.Courses = []models.Course{}
		backfilled = append(backfilled, "courses")
	}
	if doc.Tutors == nil {
		doc.Tutors = []models.Tutor{}
		backfilled = append(backfilled, "tutors")
	}
	if doc.PendingVerifications == nil {
		doc.PendingVerifications = []models.VerificationRequest{}
		backfilled = append(backfilled, "pendingVerifications")
	}
	if doc.ContactMessages == nil {
		doc.ContactMessages = []models.ContactMessage{}
		backfilled = append(backfilled, "contactMessages")
	}
	if doc.GeneralDownloads == nil {
		doc.GeneralDownloads = []models.GeneralDownload{}
		backfilled = append(backfilled, "generalDownloads")
	}
	if doc.Syllabuses == nil {
		doc.Syllabuses = []models.Syllabus{}
		backfilled = append(backfilled, "syllabuses")
	}
	if len(doc.NavItems) == 0 {
		doc.NavItems = models.DefaultNavItems()
		backfilled = append(backfilled, "navItems")
	}

	for i := range doc.Courses {
		if doc.Courses[i].Lectures == nil {
			doc.Courses[i].Lectures = []models.Lecture{}
		}
	}

	return backfilled
}
