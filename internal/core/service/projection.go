package service

import (
	"sort"
	"time"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// Project builds the view for the given store state. halls lists every known
// hall id; cameras must be sorted by (hall, camera). The result shares no
// memory with the inputs.
func Project(halls []string, cameras []*domain.Camera, caps Capacities, version uint64, at time.Time) *domain.View {
	byHall := make(map[string][]domain.CameraView, len(halls))
	for _, id := range halls {
		byHall[id] = []domain.CameraView{}
	}
	for _, c := range cameras {
		byHall[c.HallID] = append(byHall[c.HallID], domain.CameraView{
			CameraID:  c.ID,
			SourceURI: c.SourceURI,
			Entered:   c.Entered,
			Exited:    c.Exited,
			Inside:    c.Inside,
		})
	}

	ids := make([]string, 0, len(byHall))
	for id := range byHall {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	v := &domain.View{
		Halls:       make([]domain.HallView, 0, len(ids)),
		Cameras:     len(cameras),
		Version:     version,
		GeneratedAt: at,
	}
	for _, id := range ids {
		cams := byHall[id]
		sort.Slice(cams, func(i, j int) bool { return cams[i].CameraID < cams[j].CameraID })

		h := domain.HallView{HallID: id, Cameras: cams}
		for _, c := range cams {
			h.Inside += c.Inside
		}
		if limit := caps.For(id); limit > 0 {
			h.Capacity = limit
			h.OverCapacity = h.Inside > limit
		}

		v.TotalInside += h.Inside
		v.Halls = append(v.Halls, h)
	}
	return v
}
