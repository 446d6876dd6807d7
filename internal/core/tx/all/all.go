// Package all imports all transaction sub-packages to trigger their init() registrations.
// Import this package in the main application to ensure all transaction types are registered.
package all

import (
	_ "github.com/LeJamon/pixpressd/internal/core/tx/assets"
	_ "github.com/LeJamon/pixpressd/internal/core/tx/pool"
	_ "github.com/LeJamon/pixpressd/internal/core/tx/stake"
	_ "github.com/LeJamon/pixpressd/internal/core/tx/swap"
)
