package operations

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

// IsSerializable reports whether v survives a JSON round trip unchanged. Values that lose
// information (unexported fields, funcs, channels) cannot be stored in a report.
func IsSerializable(lggr logger.Logger, v any) bool {
	if v == nil {
		return true
	}

	data, err := json.Marshal(v)
	if err != nil {
		lggr.Errorw("Value is not JSON serializable", "type", reflect.TypeOf(v).String(), "error", err)
		return false
	}

	decoded := reflect.New(reflect.TypeOf(v))
	if err = json.Unmarshal(data, decoded.Interface()); err != nil {
		lggr.Errorw("Value cannot be decoded from its JSON form", "type", reflect.TypeOf(v).String(), "error", err)
		return false
	}

	if !reflect.DeepEqual(v, decoded.Elem().Interface()) {
		lggr.Errorw("Value changed after a JSON round trip", "type", reflect.TypeOf(v).String())
		return false
	}

	return true
}

type hashKey struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Input   any    `json:"input"`
}

// uniqueHash returns the sha256 of the definition identity and the input.
func uniqueHash(def Definition, input any) (string, error) {
	version := ""
	if def.Version != nil {
		version = def.Version.String()
	}

	data, err := json.Marshal(hashKey{ID: def.ID, Version: version, Input: input})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}

// cachedReportHash returns the unique hash of a stored report, memoized by report ID.
func cachedReportHash(cache *sync.Map, report Report[any, any]) (string, error) {
	if cache != nil {
		if v, ok := cache.Load(report.ID); ok {
			return v.(string), nil
		}
	}

	h, err := uniqueHash(report.Def, report.Input)
	if err != nil {
		return "", err
	}
	if cache != nil {
		cache.Store(report.ID, h)
	}

	return h, nil
}
