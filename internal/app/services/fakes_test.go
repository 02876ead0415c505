package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/yigit/notehub/internal/app/auth"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/pkg/apperrors"
	"github.com/yigit/notehub/internal/pkg/filestorage"
	"github.com/yigit/notehub/internal/pkg/helpers"
)

// memDB backs the in-memory stores so derived aggregates see every table.
type memDB struct {
	mu         sync.Mutex
	clock      time.Time
	profiles   map[string]*models.Profile
	notes      map[string]*models.Note
	ratings    []*models.Rating
	downloads  []models.Download
	subjects   map[string]string
	professors map[string]string

	noteCreateErr error
	refsErr       error
}

func newMemDB() *memDB {
	return &memDB{
		clock:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		profiles:   map[string]*models.Profile{},
		notes:      map[string]*models.Note{},
		subjects:   map[string]string{"calc": "Calculus II"},
		professors: map[string]string{"noether": "Dr. Noether"},
	}
}

// tick returns a strictly increasing timestamp.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) details(n *models.Note) models.NoteDetails {
	d := models.NoteDetails{Note: *n, SubjectName: db.subjects[n.SubjectID], ProfessorName: db.professors[n.ProfessorID]}
	if owner, ok := db.profiles[n.OwnerID]; ok {
		d.OwnerUsername = owner.Username
		d.OwnerUniversity = owner.University
		d.OwnerMajor = owner.Major
	}
	for _, dl := range db.downloads {
		if dl.NoteID == n.ID {
			d.DownloadCount++
		}
	}
	var sum int
	for _, r := range db.ratings {
		if r.NoteID == n.ID {
			sum += r.Stars
			d.RatingCount++
		}
	}
	if d.RatingCount > 0 {
		d.AverageRating = float64(sum) / float64(d.RatingCount)
	}
	return d
}

type fakeNotes struct{ db *memDB }

func (f fakeNotes) Create(_ context.Context, note *models.Note) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.noteCreateErr != nil {
		return f.db.noteCreateErr
	}
	if _, ok := f.db.subjects[note.SubjectID]; !ok {
		return apperrors.NewFieldValidationError("subjectId", "subject does not exist")
	}
	if _, ok := f.db.professors[note.ProfessorID]; !ok {
		return apperrors.NewFieldValidationError("professorId", "professor does not exist")
	}
	note.CreatedAt = f.db.tick()
	stored := *note
	f.db.notes[note.ID] = &stored
	return nil
}

func (f fakeNotes) GetByID(_ context.Context, id string) (*models.NoteDetails, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n, ok := f.db.notes[id]
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}
	d := f.db.details(n)
	return &d, nil
}

func (f fakeNotes) Exists(_ context.Context, id string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	_, ok := f.db.notes[id]
	return ok, nil
}

func (f fakeNotes) ReferencesExist(_ context.Context, subjectID, professorID string) (bool, bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.refsErr != nil {
		return false, false, f.db.refsErr
	}
	_, subject := f.db.subjects[subjectID]
	_, professor := f.db.professors[professorID]
	return subject, professor, nil
}

func (f fakeNotes) List(_ context.Context, filter models.NoteFilter) ([]models.NoteDetails, dto.PaginationInfo, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var all []models.NoteDetails
	for _, n := range f.db.notes {
		if filter.OwnerID != nil && n.OwnerID != *filter.OwnerID ||
			filter.SubjectID != nil && n.SubjectID != *filter.SubjectID ||
			filter.ProfessorID != nil && n.ProfessorID != *filter.ProfessorID ||
			filter.Year != nil && n.Year != *filter.Year {
			continue
		}
		all = append(all, f.db.details(n))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	start := min(int(offset), len(all))
	end := min(start+int(limit), len(all))
	return all[start:end], helpers.NewPaginationInfo(int64(len(all)), filter.Page, filter.Size), nil
}

func (f fakeNotes) Delete(_ context.Context, id, ownerID string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n, ok := f.db.notes[id]
	if !ok || n.OwnerID != ownerID {
		return apperrors.ErrNoteNotFound
	}
	delete(f.db.notes, id)
	kept := f.db.ratings[:0]
	for _, r := range f.db.ratings {
		if r.NoteID != id {
			kept = append(kept, r)
		}
	}
	f.db.ratings = kept
	return nil
}

type fakeDownloads struct {
	db  *memDB
	err error
}

func (f *fakeDownloads) Create(_ context.Context, d *models.Download) error {
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	d.CreatedAt = f.db.tick()
	f.db.downloads = append(f.db.downloads, *d)
	return nil
}

func (f *fakeDownloads) count(noteID string) int {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, d := range f.db.downloads {
		if d.NoteID == noteID {
			n++
		}
	}
	return n
}

type fakeRatings struct{ db *memDB }

func (f fakeRatings) Upsert(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	now := f.db.tick()
	for _, r := range f.db.ratings {
		if r.NoteID == rating.NoteID && r.RaterID == rating.RaterID {
			r.Stars = rating.Stars
			r.Comment = rating.Comment
			r.UpdatedAt = now
			out := *r
			return &out, nil
		}
	}
	stored := *rating
	stored.CreatedAt, stored.UpdatedAt = now, now
	f.db.ratings = append(f.db.ratings, &stored)
	out := stored
	return &out, nil
}

func (f fakeRatings) ListForNote(_ context.Context, noteID string) ([]models.RatingDetails, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.RatingDetails{}
	for _, r := range f.db.ratings {
		if r.NoteID == noteID {
			d := models.RatingDetails{Rating: *r}
			if p, ok := f.db.profiles[r.RaterID]; ok {
				d.RaterUsername = p.Username
			}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeRatings) GetForRater(_ context.Context, noteID, raterID string) (*models.Rating, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.ratings {
		if r.NoteID == noteID && r.RaterID == raterID {
			out := *r
			return &out, nil
		}
	}
	return nil, apperrors.ErrRatingNotFound
}

func (f fakeRatings) Summary(_ context.Context, noteID string) (models.RatingSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n, ok := f.db.notes[noteID]
	if !ok {
		return models.RatingSummary{}, nil
	}
	d := f.db.details(n)
	return models.RatingSummary{Average: d.AverageRating, Count: d.RatingCount}, nil
}

type fakeProfiles struct{ db *memDB }

func (f fakeProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (f fakeProfiles) usernameTaken(id, username string) bool {
	for _, p := range f.db.profiles {
		if p.ID != id && p.Username == username {
			return true
		}
	}
	return false
}

func (f fakeProfiles) CreateIfMissing(_ context.Context, profile *models.Profile) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.profiles[profile.ID]; ok {
		return false, nil
	}
	if f.usernameTaken(profile.ID, profile.Username) {
		return false, apperrors.NewFieldValidationError("username", "username is already taken")
	}
	stored := *profile
	stored.CreatedAt = f.db.tick()
	stored.UpdatedAt = stored.CreatedAt
	f.db.profiles[profile.ID] = &stored
	return true, nil
}

func (f fakeProfiles) Update(_ context.Context, id string, u models.ProfileUpdate) (*models.Profile, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	if u.Username != nil {
		if f.usernameTaken(id, *u.Username) {
			return nil, apperrors.NewFieldValidationError("username", "username is already taken")
		}
		p.Username = *u.Username
	}
	if u.University != nil {
		p.University = u.University
	}
	if u.Major != nil {
		p.Major = u.Major
	}
	if u.StudyStartYear != nil {
		p.StudyStartYear = u.StudyStartYear
	}
	p.UpdatedAt = f.db.tick()
	out := *p
	return &out, nil
}

func (f fakeProfiles) UpdateAvatarURL(_ context.Context, id, url string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.AvatarURL = &url
	return nil
}

type fakeRefs struct {
	db    *memDB
	calls int
	err   error
}

func (f *fakeRefs) ListSubjects(context.Context) ([]models.Subject, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Subject
	for id, name := range f.db.subjects {
		out = append(out, models.Subject{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRefs) ListProfessors(context.Context) ([]models.Professor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Professor
	for id, name := range f.db.professors {
		out = append(out, models.Professor{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// memBlobs is an in-memory filestorage.BlobStore.
type memBlobs struct {
	mu      sync.Mutex
	data    map[string][]byte
	putErr  error
	openErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: map[string][]byte{}}
}

func blobKey(ns filestorage.Namespace, p string) string { return string(ns) + "/" + p }

func (b *memBlobs) Put(_ context.Context, ns filestorage.Namespace, p string, r io.Reader) (int64, error) {
	if b.putErr != nil {
		return 0, b.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[blobKey(ns, p)] = data
	return int64(len(data)), nil
}

func (b *memBlobs) Open(_ context.Context, ns filestorage.Namespace, p string) (io.ReadCloser, *filestorage.BlobInfo, error) {
	if b.openErr != nil {
		return nil, nil, b.openErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[blobKey(ns, p)]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", filestorage.ErrBlobNotFound, p)
	}
	return io.NopCloser(bytes.NewReader(data)), &filestorage.BlobInfo{Namespace: ns, Path: p, Size: int64(len(data))}, nil
}

func (b *memBlobs) Delete(_ context.Context, ns filestorage.Namespace, p string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, blobKey(ns, p))
	return nil
}

func (b *memBlobs) PublicURL(ns filestorage.Namespace, p string) string {
	return "http://blobs.test/" + string(ns) + "/" + p
}

func (b *memBlobs) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type testEnv struct {
	db        *memDB
	blobs     *memBlobs
	downloads *fakeDownloads
	refs      *fakeRefs
	notes     NoteService
	ratings   RatingService
	profiles  ProfileService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	blobs := newMemBlobs()
	downloads := &fakeDownloads{db: db}
	authz := auth.NewAuthorizationService()

	env := &testEnv{
		db:        db,
		blobs:     blobs,
		downloads: downloads,
		refs:      &fakeRefs{db: db},
		notes:     NewNoteService(fakeNotes{db}, downloads, blobs, authz),
		ratings:   NewRatingService(fakeRatings{db}, fakeNotes{db}, authz),
		profiles:  NewProfileService(fakeProfiles{db}, blobs, authz),
	}
	for _, id := range []string{"owner", "rater", "other"} {
		db.profiles[id] = &models.Profile{ID: id, Username: id}
	}
	return env
}

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
)
