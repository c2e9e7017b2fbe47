package marlindb

// GetVolume returns the last persisted sink volume.
func (db *DB) GetVolume() (float64, bool, error) {
	var volume float64

	found, err := db.getJSON(settingsBucket, volumeKey, &volume)
	if err != nil {
		return 0, false, err
	}

	return volume, found, nil
}

func (db *DB) SetVolume(volume float64) error {
	return db.setJSON(settingsBucket, volumeKey, volume)
}
