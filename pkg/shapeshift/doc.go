// Package shapeshift is a client for the ShapeShift swap service.
// It validates pairs against a catalog generated from the configured coins,
// spaces authenticated calls with a limiter shared across clients and signs
// POST bodies through a pluggable strategy.
//
// API Documentation: https://info.shapeshift.io/api
package shapeshift
