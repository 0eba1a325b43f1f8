// Package storage is the persisted local store behind the auth and cart
// stores. Each store owns one key holding a JSON blob; the two entries are
// independent and never written transactionally together.
package storage

import "errors"

const (
	AuthKey = "engpro-auth-storage"
	CartKey = "engpro-cart-storage"
)

var ErrKeyNotFound = errors.New("storage: key not found")

type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte) error
	Delete(key string) error
	Close() error
}
