// Package backend builds storage backends and manages the active one.
package backend

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/models"
	"github.com/mvidal/gastos/internal/repository"
	"github.com/mvidal/gastos/internal/repository/localdb"
	"github.com/mvidal/gastos/internal/repository/remotedb"
)

const localDBFile = "gastos.db"

// Options carries what a backend needs to be built.
type Options struct {
	DataDir string
	Cloud   *models.CloudDBConfig
	Log     *logrus.Logger
}

// Build constructs a backend of the given type. The dispatch is closed:
// exactly two backend types exist and an unknown one is an error, never a
// silent substitution.
func Build(typ models.BackendType, opts Options) (repository.Repository, error) {
	switch typ {
	case models.BackendLocal:
		return localdb.Open(filepath.Join(opts.DataDir, localDBFile), opts.Log)
	case models.BackendRemote:
		if !opts.Cloud.Valid() {
			return nil, fmt.Errorf("remote backend requires a connection URL and auth token")
		}
		return remotedb.Open(remotedb.Config{URL: opts.Cloud.URL, AuthToken: opts.Cloud.AuthToken}, opts.Log)
	default:
		return nil, fmt.Errorf("unknown backend type %q", typ)
	}
}
