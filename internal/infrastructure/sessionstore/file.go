package sessionstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
)

var _ repository.SessionStorage = (*File)(nil)

const nonceSize = 24

// File almacenamiento en un archivo JSON local. Cada valor se sella con
// secretbox (XSalsa20-Poly1305): el archivo guarda tokens de acceso.
// Cada escritura reescribe el archivo completo de forma atómica (tmp + rename).
type File struct {
	mu   sync.Mutex
	path string
	key  [32]byte
	data map[string]string // valores sellados en base64
}

// OpenFile abre (o crea) el archivo en path. secret es el material de clave de SESSION_SECRET.
func OpenFile(path, secret string) (*File, error) {
	if secret == "" {
		return nil, fmt.Errorf("sessionstore: secreto vacío")
	}
	f := &File{path: path, data: make(map[string]string)}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("petshop-storefront/session-file"))
	if _, err := io.ReadFull(kdf, f.key[:]); err != nil {
		return nil, fmt.Errorf("sessionstore: derivar clave: %w", err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("sessionstore: leer %s: %w", path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			return nil, fmt.Errorf("sessionstore: archivo corrupto %s: %w", path, err)
		}
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sealed, ok := f.data[key]
	if !ok {
		return "", false, nil
	}
	plain, err := f.open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("sessionstore: clave %q: %w", key, err)
	}
	return plain, true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	sealed, err := f.seal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = sealed
	return f.flushLocked()
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.flushLocked()
}

func (f *File) seal(value string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("sessionstore: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &f.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (f *File) open(sealed string) (string, error) {
	box, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(box) < nonceSize {
		return "", fmt.Errorf("valor sellado inválido")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &f.key)
	if !ok {
		return "", fmt.Errorf("no se pudo abrir el valor (¿cambió SESSION_SECRET?)")
	}
	return string(plain), nil
}

func (f *File) flushLocked() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("sessionstore: serializar: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("sessionstore: crear directorio: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("sessionstore: escribir: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("sessionstore: renombrar: %w", err)
	}
	return nil
}
