package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
)

func parseInt64Ptr(q url.Values, key string) (*int64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

func parseInt32Ptr(q url.Values, key string) (*int32, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	v32 := int32(v)
	return &v32, nil
}
