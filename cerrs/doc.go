// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes common error messages used throughout the compiler for
// failures such as invalid paths, failed stages, and broken internal
// invariants. The Error type supports comparison via errors.Is().
package cerrs
