package memory

import (
	"sort"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// Store holds the authoritative counters for every hall and camera.
type Store struct {
	// hall id -> camera id -> camera
	halls map[string]map[string]*domain.Camera

	// Cameras removed through the registry. Snapshots never re-adopt them.
	tombstones map[domain.CameraKey]struct{}

	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock sets the time source used for camera timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		halls:      make(map[string]map[string]*domain.Camera),
		tombstones: make(map[domain.CameraKey]struct{}),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ApplySnapshot merges a snapshot into the store and returns one change per
// camera touched, in ascending (hall, camera) order.
//
// Counters absent from a reading keep their previous value. A camera with
// no entered or exited baseline reports a nil Old; a field reported for the
// first time is listed in Seeded.
// Cameras unknown to the store are adopted; tombstoned cameras are skipped.
func (s *Store) ApplySnapshot(snap domain.Snapshot) []domain.CounterChange {
	for _, hallID := range snap.Halls() {
		s.hall(hallID)
	}

	now := s.now()
	changes := make([]domain.CounterChange, 0, snap.Len())

	for _, key := range snap.Keys() {
		if _, removed := s.tombstones[key]; removed {
			continue
		}

		reading, _ := snap.Get(key.HallID, key.CameraID)
		if reading.IsEmpty() {
			continue
		}

		cams := s.hall(key.HallID)
		cam, ok := cams[key.CameraID]
		if !ok {
			cam = &domain.Camera{
				HallID:       key.HallID,
				ID:           key.CameraID,
				RegisteredAt: now,
			}
			cams[key.CameraID] = cam
		}

		before := cam.Baseline
		change := domain.CounterChange{Key: key}
		if before != 0 {
			old := cam.Counters
			change.Old = &old
		}

		cam.Counters = reading.ApplyTo(cam.Counters)
		cam.Baseline |= reading.Fields()
		cam.UpdatedAt = now
		change.New = cam.Counters
		change.Seeded = cam.Baseline &^ before

		changes = append(changes, change)
	}

	return changes
}

// RegisterCamera inserts a camera with zeroed counters.
// Registration does not establish a baseline; the first snapshot does.
func (s *Store) RegisterCamera(hallID, cameraID, sourceURI string) error {
	cams := s.hall(hallID)
	if _, exists := cams[cameraID]; exists {
		return domain.ErrCameraConflict.WithDetails(hallID + "/" + cameraID)
	}

	key := domain.CameraKey{HallID: hallID, CameraID: cameraID}
	delete(s.tombstones, key)

	cams[cameraID] = &domain.Camera{
		HallID:       hallID,
		ID:           cameraID,
		SourceURI:    sourceURI,
		RegisteredAt: s.now(),
	}
	return nil
}

// RemoveCamera deletes a camera and tombstones it for the session.
func (s *Store) RemoveCamera(hallID, cameraID string) error {
	cams, ok := s.halls[hallID]
	if !ok {
		return domain.ErrCameraNotFound.WithDetails(hallID + "/" + cameraID)
	}
	if _, ok := cams[cameraID]; !ok {
		return domain.ErrCameraNotFound.WithDetails(hallID + "/" + cameraID)
	}

	delete(cams, cameraID)
	s.tombstones[domain.CameraKey{HallID: hallID, CameraID: cameraID}] = struct{}{}
	return nil
}

// Camera returns a copy of one camera.
func (s *Store) Camera(hallID, cameraID string) (*domain.Camera, error) {
	cam, ok := s.halls[hallID][cameraID]
	if !ok {
		return nil, domain.ErrCameraNotFound.WithDetails(hallID + "/" + cameraID)
	}
	return cam.Clone(), nil
}

// Cameras returns copies of all cameras in ascending (hall, camera) order.
func (s *Store) Cameras() []*domain.Camera {
	out := make([]*domain.Camera, 0, s.Len())
	for _, cams := range s.halls {
		for _, cam := range cams {
			out = append(out, cam.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out
}

// Halls returns all known hall ids in ascending order, including halls
// whose cameras have all been removed.
func (s *Store) Halls() []string {
	halls := make([]string, 0, len(s.halls))
	for id := range s.halls {
		halls = append(halls, id)
	}
	sort.Strings(halls)
	return halls
}

// Len returns the number of live cameras.
func (s *Store) Len() int {
	n := 0
	for _, cams := range s.halls {
		n += len(cams)
	}
	return n
}

// IsRemoved reports whether a camera was removed during this session.
func (s *Store) IsRemoved(hallID, cameraID string) bool {
	_, ok := s.tombstones[domain.CameraKey{HallID: hallID, CameraID: cameraID}]
	return ok
}

func (s *Store) hall(id string) map[string]*domain.Camera {
	cams, ok := s.halls[id]
	if !ok {
		cams = make(map[string]*domain.Camera)
		s.halls[id] = cams
	}
	return cams
}
