package jukebox

// Status is a snapshot of the jukebox state.
type Status struct {
	Pairing        bool    `json:"pairing"`
	Session        string  `json:"session,omitempty"`
	Observed       int     `json:"observed"`
	Hotspot        bool    `json:"hotspot"`
	ManagerRunning bool    `json:"managerRunning"`
	Volume         float64 `json:"volume"`
	Cards          int     `json:"cards"`
	LastCard       string  `json:"lastCard,omitempty"`
	LastAction     string  `json:"lastAction,omitempty"`
}

type StatusClient struct {
	Updates <-chan *Status
	Id      uint32
	updates chan *Status
	jukebox *Jukebox
}

// Status returns the most recently published snapshot.
func (j *Jukebox) Status() Status {
	j.statusMtx.Lock()
	defer j.statusMtx.Unlock()

	return j.status
}

// SubscribeStatus returns a client receiving every published snapshot. A client
// that does not keep up misses snapshots.
func (j *Jukebox) SubscribeStatus() *StatusClient {
	updates := make(chan *Status, 8)

	client := &StatusClient{
		Updates: updates,
		updates: updates,
		jukebox: j,
	}

	j.statusMtx.Lock()
	client.Id = j.nextStatusClientID
	j.nextStatusClientID++
	j.statusClients[client.Id] = client
	j.statusMtx.Unlock()

	return client
}

// Cancel unsubscribes the client and closes its channel.
func (c *StatusClient) Cancel() {
	j := c.jukebox

	j.statusMtx.Lock()
	defer j.statusMtx.Unlock()

	if _, ok := j.statusClients[c.Id]; !ok {
		return
	}

	delete(j.statusClients, c.Id)
	close(c.updates)
}

func (j *Jukebox) publish() {
	status := Status{
		Pairing:        j.session != nil,
		Hotspot:        j.hotspotEnabled,
		ManagerRunning: j.managerRunning(),
		Volume:         j.volume,
		Cards:          j.library.Len(),
		LastCard:       j.lastCard,
		LastAction:     j.lastAction,
	}

	if j.session != nil {
		status.Session = j.session.id
		status.Observed = len(j.session.observed)
	}

	j.statusMtx.Lock()
	defer j.statusMtx.Unlock()

	j.status = status

	for _, client := range j.statusClients {
		snapshot := status

		select {
		case client.updates <- &snapshot:
		default:
			j.log.Debugf("Status client %d is lagging, dropping snapshot", client.Id)
		}
	}
}
