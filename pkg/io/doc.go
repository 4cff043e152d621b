// Package io persists detection results: JSON for lossless round trips
// and the dec block-structure format consumed by decomposition solvers.
package io
