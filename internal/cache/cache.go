package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

// Cache is the shared interface for the content and embedding caches
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey generates a cache key for fetched source content
func ContentKey(url string) string {
	return key("content", url)
}

// VectorKey generates a cache key for an embedding vector. The model name is
// part of the key so a provider/model switch never serves stale vectors.
func VectorKey(model, text string) string {
	return key("vec:"+model, text)
}

func key(ns, payload string) string {
	hash := sha256.Sum256([]byte(payload))
	return "forzeo:v1:" + ns + ":" + hex.EncodeToString(hash[:])
}

// EncodeVector serializes an embedding vector for cache storage
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector deserializes an embedding vector from cache storage
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("malformed vector: %d bytes", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
