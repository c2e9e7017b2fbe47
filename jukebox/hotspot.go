package jukebox

import "time"

// toggleHotspot flips the hotspot. The manager only runs while the hotspot is
// off. If the hotspot cannot be switched, the flag and the manager stay as they
// were.
func (j *Jukebox) toggleHotspot() {
	if j.hotspot == nil {
		j.log.Warnf("No hotspot configured")
		return
	}

	if !j.hotspotEnabled {
		j.stopManager()

		if err := j.hotspot.Enable(); err != nil {
			j.log.Errorf("Could not enable hotspot: %v", err)
			j.spawnManager()
			return
		}

		j.hotspotEnabled = true
		j.log.Infof("Hotspot enabled")

		return
	}

	if err := j.hotspot.Disable(); err != nil {
		j.log.Errorf("Could not disable hotspot: %v", err)
		return
	}

	j.hotspotEnabled = false
	j.log.Infof("Hotspot disabled")

	j.spawnManager()
}

func (j *Jukebox) spawnManager() {
	if j.manager == nil || j.managerRunning() {
		return
	}

	// A signal left over from a manager that already exited must not stop the
	// new one.
	select {
	case <-j.shutdown:
	default:
	}

	done := make(chan struct{})
	j.managerDone = done

	go func() {
		defer close(done)

		if err := j.manager.Serve(j.shutdown); err != nil {
			j.log.Errorf("Manager failed: %v", err)
		}
	}()

	j.log.Infof("Manager started")
}

// stopManager signals the running manager once and waits for it to exit.
func (j *Jukebox) stopManager() {
	if j.managerDone == nil {
		return
	}

	done := j.managerDone
	j.managerDone = nil

	select {
	case j.shutdown <- struct{}{}:
	default:
	}

	select {
	case <-done:
		j.log.Infof("Manager stopped")
	case <-time.After(j.managerStopTimeout):
		j.log.Warnf("Manager did not stop within %v", j.managerStopTimeout)
	}
}

func (j *Jukebox) managerRunning() bool {
	if j.managerDone == nil {
		return false
	}

	select {
	case <-j.managerDone:
		return false
	default:
		return true
	}
}

// reapManager notices a manager that exited without being asked to, so the
// change gets published.
func (j *Jukebox) reapManager() bool {
	if j.managerDone == nil || j.managerRunning() {
		return false
	}

	j.managerDone = nil
	j.log.Warnf("Manager exited")

	return true
}

// disableHotspot turns off a hotspot that is still up when the jukebox stops.
func (j *Jukebox) disableHotspot() {
	if !j.hotspotEnabled {
		return
	}

	if err := j.hotspot.Disable(); err != nil {
		j.log.Errorf("Could not disable hotspot: %v", err)
		return
	}

	j.hotspotEnabled = false
}
