package handlers

import (
	"autotube/internal/jobs"
	"autotube/internal/pkg/logger"
	"autotube/internal/ports"
)

type Deps struct {
	Jobs    *jobs.Service
	Store   ports.JobStore
	Storage ports.StorageProvider
	Log     *logger.Logger
	Version string
}

type Handler struct {
	jobs    *jobs.Service
	store   ports.JobStore
	storage ports.StorageProvider
	log     *logger.Logger
	version string
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Handler{
		jobs:    d.Jobs,
		store:   d.Store,
		storage: d.Storage,
		log:     d.Log,
		version: d.Version,
	}
}

