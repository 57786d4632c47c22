package contextkeys

// Custom key type to avoid collisions with other packages.
type contextKey string

// DBContextKey is the key under which middleware stores the request-scoped
// *gorm.DB (pool or transaction) in the gin context.
const DBContextKey = contextKey("db")
