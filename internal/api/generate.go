// Package api holds the HTTP types and chi routing generated from
// api/openapi.yaml.
package api

//go:generate go tool oapi-codegen -config cfg.yaml ../../api/openapi.yaml
