// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields for custom behavior and plain fields for canned
// responses, so a test sets only what it needs:
//
//	offices := &mocks.MockOfficeStore{
//	    Rows: map[int64]*domain.Office{7: {ID: 7, Estatus: domain.StatusActive}},
//	}
//
// MockLister covers every store that only lists and gets by id; stores with
// extra operations embed it and add function fields for those.
package mocks
