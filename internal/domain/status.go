package domain

// UserInfo is the signed-in identity echoed by the status probe.
type UserInfo struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Initials string `json:"initials"`
}

// ServerStatus is the auth and connection probe result.
type ServerStatus struct {
	APIStatus            string    `json:"api_status"`
	Authenticated        bool      `json:"user_authenticated"`
	UserRole             Role      `json:"user_role"`
	UserInfo             *UserInfo `json:"user_info"`
	DefaultProductsCount int       `json:"default_products_count"`
	Timestamp            string    `json:"timestamp"`
}

func (s ServerStatus) Online() bool {
	return s.APIStatus == "online"
}
