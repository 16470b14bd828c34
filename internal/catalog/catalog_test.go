package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/edkeeper/classvault/internal/blob"
	"github.com/edkeeper/classvault/internal/catalog/migrate"
	"github.com/edkeeper/classvault/internal/catalog/models"
	"github.com/edkeeper/classvault/internal/docstore"
	"github.com/edkeeper/classvault/internal/logging"
	"github.com/edkeeper/classvault/internal/shared"
)

// enrollmentRecorder captures the user-store side of the verification flow
// and can be told to fail, to exercise the cross-store gap.
type enrollmentRecorder struct {
	added    []int64
	promoted []int64
	removed  []int64
	failNext error
}

func (r *enrollmentRecorder) call(list *[]int64, courseID int64) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	*list = append(*list, courseID)
	return nil
}

func (r *enrollmentRecorder) AddPendingEnrollment(_ context.Context, _ string, courseID int64) error {
	return r.call(&r.added, courseID)
}

func (r *enrollmentRecorder) PromoteToEnrolled(_ context.Context, _ string, courseID int64) error {
	return r.call(&r.promoted, courseID)
}

func (r *enrollmentRecorder) RemovePendingEnrollment(_ context.Context, _ string, courseID int64) error {
	return r.call(&r.removed, courseID)
}

// flakyBlobStore fails Delete for the keys it is told to keep.
type flakyBlobStore struct {
	blob.Store
	undeletable map[string]bool
}

func (f *flakyBlobStore) Delete(ctx context.Context, key string) error {
	if f.undeletable[key] {
		return fmt.Errorf("%w: simulated delete failure", shared.ErrStorageUnavailable)
	}
	return f.Store.Delete(ctx, key)
}

func newTestCatalog(t *testing.T) (*Catalog, blob.Store, *enrollmentRecorder) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE blobs (key TEXT PRIMARY KEY, data BLOB NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE slots (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)

	docs := docstore.NewSQLStore(db)
	blobs := blob.NewSQLStore(db)
	users := &enrollmentRecorder{}

	// Start from an empty catalog so ids are predictable.
	empty := &models.Document{ClassroomName: "Test Classes"}
	migrate.Normalize(empty)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	require.NoError(t, docs.Save(context.Background(), docstore.SlotCatalog, raw))

	return New(docs, blobs, users, logging.NewNopLogger()), blobs, users
}

func requireBlobGone(t *testing.T, blobs blob.Store, key string) {
	t.Helper()
	_, err := blobs.Get(context.Background(), key)
	assert.ErrorIs(t, err, shared.ErrNotFound, "blob %s should have been deleted", key)
}

func TestAddCourse_AssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	cat, _, _ := newTestCatalog(t)

	for want := int64(1); want <= 3; want++ {
		applied, err := cat.AddCourse(ctx, models.Course{Name: fmt.Sprintf("Course %d", want)}, nil)
		require.NoError(t, err)
		assert.Equal(t, want, applied.Doc.Courses[want-1].ID)
	}

	// Ids keep climbing past deleted entries, never reusing a value.
	_, err := cat.DeleteCourse(ctx, 3)
	require.NoError(t, err)
	applied, err := cat.AddCourse(ctx, models.Course{Name: "Course 4"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), applied.Doc.Courses[2].ID)
}

func TestAddCourse_Validation(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	_, err := cat.AddCourse(context.Background(), models.Course{}, nil)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateCourse_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	cat, blobs, _ := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Physics"}, &Upload{Data: []byte("old-image")})
	require.NoError(t, err)
	course := applied.Doc.Courses[0]
	oldKey := course.ImageKey
	require.NotEmpty(t, oldKey)

	_, err = cat.AddLecture(ctx, course.ID, models.Lecture{Title: "Kinematics"}, nil, nil)
	require.NoError(t, err)

	course.Name = "Physics (revised)"
	applied, err = cat.UpdateCourse(ctx, course, &Upload{Data: []byte("new-image")})
	require.NoError(t, err)

	got := applied.Doc.FindCourse(course.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Physics (revised)", got.Name)
	assert.NotEqual(t, oldKey, got.ImageKey)
	assert.Len(t, got.Lectures, 1, "lectures survive a course update")

	requireBlobGone(t, blobs, oldKey)
	data, err := blobs.Get(ctx, got.ImageKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-image"), data)
}

func TestUpdateCourse_NotFound(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	_, err := cat.UpdateCourse(context.Background(), models.Course{ID: 99, Name: "x"}, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteCourse_CascadesToOwnedBlobs(t *testing.T) {
	ctx := context.Background()
	cat, blobs, _ := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Chemistry"}, &Upload{Data: []byte("img")})
	require.NoError(t, err)
	courseID := applied.Doc.Courses[0].ID
	imageKey := applied.Doc.Courses[0].ImageKey

	applied, err = cat.AddLecture(ctx, courseID, models.Lecture{Title: "Atoms"},
		&Upload{Data: []byte("video")}, &Upload{Data: []byte("pdf"), Filename: "atoms.pdf"})
	require.NoError(t, err)
	lecture := applied.Doc.FindCourse(courseID).Lectures[0]
	require.NotEmpty(t, lecture.VideoKey)
	require.NotEmpty(t, lecture.PDFKey)

	applied, err = cat.DeleteCourse(ctx, courseID)
	require.NoError(t, err)
	assert.Empty(t, applied.FailedDeletes)
	assert.Nil(t, applied.Doc.FindCourse(courseID))

	requireBlobGone(t, blobs, imageKey)
	requireBlobGone(t, blobs, lecture.VideoKey)
	requireBlobGone(t, blobs, lecture.PDFKey)
}

func TestDeleteCourse_SurfacesFailedBlobDeletes(t *testing.T) {
	ctx := context.Background()
	cat, blobs, _ := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Biology"}, &Upload{Data: []byte("img")})
	require.NoError(t, err)
	courseID := applied.Doc.Courses[0].ID
	imageKey := applied.Doc.Courses[0].ImageKey

	cat.blobs = &flakyBlobStore{Store: blobs, undeletable: map[string]bool{imageKey: true}}

	applied, err = cat.DeleteCourse(ctx, courseID)
	require.NoError(t, err, "the document write committed; failed GC is not an operation failure")
	assert.Equal(t, []string{imageKey}, applied.FailedDeletes)
	assert.Nil(t, applied.Doc.FindCourse(courseID))
}

func TestLectureLifecycle(t *testing.T) {
	ctx := context.Background()
	cat, blobs, _ := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Maths"}, nil)
	require.NoError(t, err)
	courseID := applied.Doc.Courses[0].ID

	// External video links are kept as-is.
	applied, err = cat.AddLecture(ctx, courseID, models.Lecture{
		Title:    "Algebra",
		VideoURL: "https://youtube.com/watch?v=abc",
	}, nil, nil)
	require.NoError(t, err)
	lecture := applied.Doc.FindCourse(courseID).Lectures[0]
	assert.Equal(t, "https://youtube.com/watch?v=abc", lecture.VideoURL)
	assert.Empty(t, lecture.VideoKey)

	// Uploading a video supersedes the external link.
	lecture.Description = "updated"
	applied, err = cat.UpdateLecture(ctx, courseID, lecture, &Upload{Data: []byte("video-bytes")})
	require.NoError(t, err)
	lecture = applied.Doc.FindCourse(courseID).Lectures[0]
	assert.Empty(t, lecture.VideoURL)
	assert.NotEmpty(t, lecture.VideoKey)
	assert.Equal(t, "updated", lecture.Description)
	videoKey := lecture.VideoKey

	// Switching back to an external link drops the stored video.
	lecture.VideoURL = "https://youtube.com/watch?v=def"
	applied, err = cat.UpdateLecture(ctx, courseID, lecture, nil)
	require.NoError(t, err)
	lecture = applied.Doc.FindCourse(courseID).Lectures[0]
	assert.Empty(t, lecture.VideoKey)
	requireBlobGone(t, blobs, videoKey)

	// PDF attach, replace, remove.
	applied, err = cat.UpdateLecturePDF(ctx, courseID, lecture.ID, Upload{Data: []byte("v1"), Filename: "notes.pdf"})
	require.NoError(t, err)
	lecture = applied.Doc.FindCourse(courseID).Lectures[0]
	firstPDF := lecture.PDFKey
	assert.Equal(t, "notes.pdf", lecture.PDFFileName)

	applied, err = cat.UpdateLecturePDF(ctx, courseID, lecture.ID, Upload{Data: []byte("v2"), Filename: "notes-v2.pdf"})
	require.NoError(t, err)
	lecture = applied.Doc.FindCourse(courseID).Lectures[0]
	assert.NotEqual(t, firstPDF, lecture.PDFKey)
	requireBlobGone(t, blobs, firstPDF)

	secondPDF := lecture.PDFKey
	applied, err = cat.RemoveLecturePDF(ctx, courseID, lecture.ID)
	require.NoError(t, err)
	lecture = applied.Doc.FindCourse(courseID).Lectures[0]
	assert.Empty(t, lecture.PDFKey)
	assert.Empty(t, lecture.PDFFileName)
	requireBlobGone(t, blobs, secondPDF)

	// Delete removes the lecture; nothing else owned keys at this point.
	applied, err = cat.DeleteLecture(ctx, courseID, lecture.ID)
	require.NoError(t, err)
	assert.Empty(t, applied.Doc.FindCourse(courseID).Lectures)
}

func TestLectureIDs_UniqueAcrossCourses(t *testing.T) {
	ctx := context.Background()
	cat, _, _ := newTestCatalog(t)

	a, err := cat.AddCourse(ctx, models.Course{Name: "A"}, nil)
	require.NoError(t, err)
	b, err := cat.AddCourse(ctx, models.Course{Name: "B"}, nil)
	require.NoError(t, err)

	applied, err := cat.AddLecture(ctx, a.Doc.Courses[0].ID, models.Lecture{Title: "one"}, nil, nil)
	require.NoError(t, err)
	first := applied.Doc.FindCourse(a.Doc.Courses[0].ID).Lectures[0].ID

	applied, err = cat.AddLecture(ctx, b.Doc.Courses[1].ID, models.Lecture{Title: "two"}, nil, nil)
	require.NoError(t, err)
	second := applied.Doc.FindCourse(b.Doc.Courses[1].ID).Lectures[0].ID

	assert.Greater(t, second, first)
}

func TestVerificationFlow_Approve(t *testing.T) {
	ctx := context.Background()
	cat, blobs, users := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Physics"}, nil)
	require.NoError(t, err)
	courseID := applied.Doc.Courses[0].ID

	applied, err = cat.AddVerificationRequest(ctx, models.VerificationRequest{
		UserEmail:     "asha@example.com",
		UserName:      "Asha",
		CourseID:      courseID,
		TransactionID: "TXN-1",
	}, Upload{Data: []byte("screenshot")})
	require.NoError(t, err)

	req := applied.Doc.PendingVerifications[0]
	assert.Equal(t, "Physics", req.CourseName, "course name is denormalized onto the request")
	require.NotEmpty(t, req.ScreenshotKey)
	assert.Equal(t, []int64{courseID}, users.added)

	applied, err = cat.ApproveVerification(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, applied.Doc.PendingVerifications)
	assert.Equal(t, []int64{courseID}, users.promoted)
	requireBlobGone(t, blobs, req.ScreenshotKey)
}

func TestVerificationFlow_Reject(t *testing.T) {
	ctx := context.Background()
	cat, blobs, users := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Physics"}, nil)
	require.NoError(t, err)
	courseID := applied.Doc.Courses[0].ID

	applied, err = cat.AddVerificationRequest(ctx, models.VerificationRequest{
		UserEmail:     "asha@example.com",
		CourseID:      courseID,
		TransactionID: "TXN-2",
	}, Upload{Data: []byte("screenshot")})
	require.NoError(t, err)
	req := applied.Doc.PendingVerifications[0]

	applied, err = cat.RejectVerification(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, applied.Doc.PendingVerifications)
	assert.Equal(t, []int64{courseID}, users.removed)
	assert.Empty(t, users.promoted)
	requireBlobGone(t, blobs, req.ScreenshotKey)
}

func TestVerification_CrossStoreGapIsSurfaced(t *testing.T) {
	ctx := context.Background()
	cat, _, users := newTestCatalog(t)

	applied, err := cat.AddCourse(ctx, models.Course{Name: "Physics"}, nil)
	require.NoError(t, err)
	courseID := applied.Doc.Courses[0].ID

	applied, err = cat.AddVerificationRequest(ctx, models.VerificationRequest{
		UserEmail:     "asha@example.com",
		CourseID:      courseID,
		TransactionID: "TXN-3",
	}, Upload{Data: []byte("screenshot")})
	require.NoError(t, err)
	reqID := applied.Doc.PendingVerifications[0].ID

	users.failNext = fmt.Errorf("%w: user store offline", shared.ErrStorageUnavailable)

	applied, err = cat.ApproveVerification(ctx, reqID)
	assert.ErrorIs(t, err, shared.ErrCrossStoreInconsistency)
	// The document write committed: the caller gets the applied result so it
	// can reconcile the enrollment separately.
	require.NotNil(t, applied)
	assert.Empty(t, applied.Doc.PendingVerifications)
}

func TestContactMessages(t *testing.T) {
	ctx := context.Background()
	cat, _, _ := newTestCatalog(t)

	applied, err := cat.AddContactMessage(ctx, "Asha", "asha@example.com", "When do classes start?")
	require.NoError(t, err)
	msg := applied.Doc.ContactMessages[0]
	assert.Equal(t, models.MessageUnread, msg.Status)
	assert.False(t, msg.ReceivedAt.IsZero())

	applied, err = cat.UpdateContactMessageStatus(ctx, msg.ID, models.MessageRead)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, applied.Doc.ContactMessages[0].Status)

	_, err = cat.UpdateContactMessageStatus(ctx, msg.ID, "archived")
	assert.ErrorIs(t, err, shared.ErrValidation)

	applied, err = cat.DeleteContactMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, applied.Doc.ContactMessages)
}

func TestGeneralDownloads(t *testing.T) {
	ctx := context.Background()
	cat, blobs, _ := newTestCatalog(t)

	applied, err := cat.AddGeneralDownload(ctx, "Timetable", Upload{Data: []byte("v1"), Filename: "timetable.pdf"})
	require.NoError(t, err)
	dl := applied.Doc.GeneralDownloads[0]
	firstKey := dl.PDFKey

	applied, err = cat.UpdateGeneralDownload(ctx, dl.ID, "Timetable 2026", &Upload{Data: []byte("v2"), Filename: "timetable-2026.pdf"})
	require.NoError(t, err)
	dl = applied.Doc.GeneralDownloads[0]
	assert.Equal(t, "Timetable 2026", dl.Title)
	assert.Equal(t, "timetable-2026.pdf", dl.PDFFileName)
	requireBlobGone(t, blobs, firstKey)

	applied, err = cat.DeleteGeneralDownload(ctx, dl.ID)
	require.NoError(t, err)
	assert.Empty(t, applied.Doc.GeneralDownloads)
	requireBlobGone(t, blobs, dl.PDFKey)
}

func TestSyllabuses(t *testing.T) {
	ctx := context.Background()
	cat, blobs, _ := newTestCatalog(t)

	applied, err := cat.AddSyllabus(ctx, models.Syllabus{Title: "Class 10"},
		&Upload{Data: []byte("img")}, &Upload{Data: []byte("pdf"), Filename: "class10.pdf"})
	require.NoError(t, err)
	syl := applied.Doc.Syllabuses[0]
	require.NotEmpty(t, syl.ImageKey)
	require.NotEmpty(t, syl.PDFKey)
	assert.Equal(t, "class10.pdf", syl.PDFFileName)

	oldImage := syl.ImageKey
	syl.Description = "board syllabus"
	applied, err = cat.UpdateSyllabus(ctx, syl, &Upload{Data: []byte("img2")}, nil)
	require.NoError(t, err)
	syl = applied.Doc.Syllabuses[0]
	assert.Equal(t, "board syllabus", syl.Description)
	assert.NotEqual(t, oldImage, syl.ImageKey)
	requireBlobGone(t, blobs, oldImage)

	applied, err = cat.DeleteSyllabus(ctx, syl.ID)
	require.NoError(t, err)
	assert.Empty(t, applied.Doc.Syllabuses)
	requireBlobGone(t, blobs, syl.ImageKey)
	requireBlobGone(t, blobs, syl.PDFKey)
}

func TestUpdateNavOrder(t *testing.T) {
	ctx := context.Background()
	cat, _, _ := newTestCatalog(t)

	snap, err := cat.Snapshot(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, snap.NavItems)

	// Reverse the current order.
	ids := make([]int64, len(snap.NavItems))
	for i, item := range snap.NavItems {
		ids[len(ids)-1-i] = item.ID
	}

	applied, err := cat.UpdateNavOrder(ctx, ids)
	require.NoError(t, err)
	for rank, item := range applied.Doc.NavItems {
		assert.Equal(t, rank, item.Order, "ranks must be dense 0..N-1")
		assert.Equal(t, ids[rank], item.ID)
	}

	_, err = cat.UpdateNavOrder(ctx, ids[:1])
	assert.ErrorIs(t, err, shared.ErrValidation)

	bogus := append([]int64{}, ids...)
	bogus[0] = 999
	_, err = cat.UpdateNavOrder(ctx, bogus)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateSiteConfig(t *testing.T) {
	ctx := context.Background()
	cat, _, _ := newTestCatalog(t)

	applied, err := cat.UpdateSiteConfig(ctx, SiteConfig{
		ClassroomName: "New Name Classes",
		Home:          models.HomeContent{Title: "Welcome"},
		PaymentDetails: models.PaymentDetails{
			UPIID: "newname@upi",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name Classes", applied.Doc.ClassroomName)
	assert.Equal(t, "Welcome", applied.Doc.Home.Title)
	assert.Equal(t, "newname@upi", applied.Doc.PaymentDetails.UPIID)

	_, err = cat.UpdateSiteConfig(ctx, SiteConfig{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestConcurrentMutations_AllReflected(t *testing.T) {
	ctx := context.Background()
	cat, _, _ := newTestCatalog(t)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := cat.AddContactMessage(ctx, fmt.Sprintf("User %d", i), "u@example.com", "hello")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	snap, err := cat.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.ContactMessages, n, "no mutation may be lost")

	seen := map[int64]bool{}
	for _, msg := range snap.ContactMessages {
		assert.False(t, seen[msg.ID], "ids must be collision-free")
		seen[msg.ID] = true
	}
}
