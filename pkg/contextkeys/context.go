package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// Ключи, по которым middleware кладет данные авторизации в gin.Context
const (
	UserIDKey = contextKey("userID")
	RoleKey   = contextKey("role")
)

// String возвращает строковое представление ключа для c.Get/c.Set
func (k contextKey) String() string {
	return string(k)
}
