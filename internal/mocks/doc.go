// Package mocks provides centralized mock implementations for testing.
//
// Each mock pairs function fields, which override a single method, with a
// map-backed default implementation that behaves like a small in-memory
// store. Tests typically seed the maps and only set a function field when
// they need to inject a failure:
//
//	users := mocks.NewMockUserStore()
//	users.AddUser(admin)
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
package mocks
