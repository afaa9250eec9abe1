package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Version, timestamps, vault ID
	IndexBucket  = []byte("index")  // Manifest of encrypted files
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigVaultID  = []byte("vault_id")
)

// Registry provides BBolt-based state storage for labkey
type Registry struct {
	db *bolt.DB
}

// Open opens or creates a labkey registry database
func Open(path string) (*Registry, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the database
func (r *Registry) Close() error {
	return r.db.Close()
}

// Initialize creates the bucket structure for a new registry
func (r *Registry) Initialize() error {
	return r.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, IndexBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (r *Registry) IsInitialized() (bool, error) {
	var initialized bool
	err := r.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// UpdateModified updates the last modified timestamp
func (r *Registry) UpdateModified() error {
	return r.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		now := time.Now()
		modified, _ := now.MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetModified retrieves the last modified timestamp
func (r *Registry) GetModified() (time.Time, error) {
	var modified time.Time
	err := r.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetVaultID retrieves the vault ID from the config bucket
func (r *Registry) GetVaultID() (string, error) {
	var vaultID string
	err := r.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves the existing vault ID or generates a new one
func (r *Registry) GetOrCreateVaultID() (string, error) {
	vaultID, err := r.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	vaultID = uuid.NewString()
	err = r.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}

// ManifestEntry records one encrypted file in the registry
type ManifestEntry struct {
	Path          string    `json:"path"`          // Source (plaintext) file
	EncryptedPath string    `json:"encryptedPath"` // Encrypted sibling file
	Size          int64     `json:"size"`          // Plaintext size at encryption time
	ModTime       time.Time `json:"modTime"`       // Plaintext mtime at encryption time
	Hash          string    `json:"hash"`          // Plaintext content hash for change detection
	EncryptedAt   time.Time `json:"encryptedAt"`
}

// UpdateManifest adds or replaces a file entry in the manifest
func (r *Registry) UpdateManifest(entry ManifestEntry) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		manifest := tx.Bucket(IndexBucket)
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return manifest.Put([]byte(entry.Path), data)
	})
}

// RemoveFromManifest removes a file from the manifest
func (r *Registry) RemoveFromManifest(path string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		manifest := tx.Bucket(IndexBucket)
		return manifest.Delete([]byte(path))
	})
}

// GetManifest returns all entries in the manifest
func (r *Registry) GetManifest() ([]ManifestEntry, error) {
	var entries []ManifestEntry
	err := r.db.View(func(tx *bolt.Tx) error {
		manifest := tx.Bucket(IndexBucket)
		if manifest == nil {
			return fmt.Errorf("index bucket not found")
		}
		return manifest.ForEach(func(k, v []byte) error {
			var entry ManifestEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}

// GetManifestEntry returns a single manifest entry, or nil if absent
func (r *Registry) GetManifestEntry(path string) (*ManifestEntry, error) {
	var entry *ManifestEntry
	err := r.db.View(func(tx *bolt.Tx) error {
		manifest := tx.Bucket(IndexBucket)
		if manifest == nil {
			return fmt.Errorf("index bucket not found")
		}
		data := manifest.Get([]byte(path))
		if data == nil {
			return nil
		}
		entry = &ManifestEntry{}
		return json.Unmarshal(data, entry)
	})
	return entry, err
}
