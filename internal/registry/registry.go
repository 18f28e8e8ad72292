// Package registry materialises configured datasource descriptors into
// ready-to-call backend.Client values (§4.B).
package registry

import (
	"time"

	"lokifederation/internal/backend"
	"lokifederation/internal/backend/grpcclient"
	"lokifederation/internal/backend/httpclient"
	"lokifederation/pkg/clienterr"
)

// Datasource is the configuration record the registry consumes: the name
// selects the protocol family, urls are the backend endpoints.
type Datasource struct {
	Name string
	URLs []string
}

// Options controls client construction shared across all backends of a
// registry build (timeouts, retries).
type Options struct {
	Timeout    time.Duration
	MaxRetries int
}

// DefaultOptions mirrors the teacher's ServiceEndpoint defaults.
func DefaultOptions() Options {
	return Options{Timeout: 30 * time.Second, MaxRetries: 3}
}

// Build turns a list of datasource records into a flat list of backend
// clients, one per URL. It is pure: no caching, no health tracking. A single
// unsupported or misconfigured datasource aborts the whole build, matching
// §4.B's "fails with Other(...), aborting the whole request" contract.
func Build(datasources []Datasource, opts Options) ([]backend.Client, error) {
	clients := make([]backend.Client, 0)

	for _, ds := range datasources {
		switch ds.Name {
		case "static-http":
			if len(ds.URLs) == 0 {
				return nil, clienterr.NewFatal(clienterr.Other, "static-http requires urls")
			}
			for _, url := range ds.URLs {
				clients = append(clients, httpclient.New(url, opts.Timeout, opts.MaxRetries))
			}
		case "static-grpc-alpha":
			if len(ds.URLs) == 0 {
				return nil, clienterr.NewFatal(clienterr.Other, "static-grpc-alpha requires urls")
			}
			for _, url := range ds.URLs {
				c, err := grpcclient.New(url, opts.Timeout, opts.MaxRetries)
				if err != nil {
					return nil, clienterr.NewFatal(clienterr.Other, "failed to dial grpc backend "+url+": "+err.Error())
				}
				clients = append(clients, c)
			}
		default:
			return nil, clienterr.NewFatal(clienterr.Other, "Unsupported datasource")
		}
	}

	return clients, nil
}
