package listview

import "github.com/ekos-sistemi/ekos-api/internal/models"

// Optimistic applies a local mutation immediately, issues the request, and
// restores the snapshot when the request fails. The UI shows the new state
// during the round trip either way.
func Optimistic[T any](state *T, apply func(*T), request func() error) error {
	snapshot := *state
	apply(state)
	if err := request(); err != nil {
		*state = snapshot
		return err
	}
	return nil
}

// ToggleDurumOptimistic flips the durum of the record with the given id in
// the controller's records before the request resolves, rolling back when
// the server rejects the toggle.
func (c *Controller) ToggleDurumOptimistic(id string, request func() error) error {
	idx := -1
	for i, r := range c.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return request()
	}

	return Optimistic(&c.records[idx], func(r *models.Rapor) {
		if r.Durum == models.DurumAktif {
			r.Durum = models.DurumPasif
		} else {
			r.Durum = models.DurumAktif
		}
	}, request)
}
