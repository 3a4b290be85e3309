package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB в gin context
	DBContextKey = contextKey("db")

	// PrincipalContextKey - ключ для разрешенного *auth.Principal текущего запроса
	PrincipalContextKey = contextKey("principal")
)
