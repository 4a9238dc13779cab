package api

// User is the account attached to the server session.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Session is the payload of GET /user. The backend reports the role both
// inside the user object and at the top level; the top-level one is
// authoritative for gating.
type Session struct {
	LoggedIn bool   `json:"logged_in"`
	Role     string `json:"role"`
	User     *User  `json:"user"`
}

type LoginResult struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// NewAccount is the body of POST /register.
type NewAccount struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type MenuItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Category groups menu items the way GET /items returns them.
type Category struct {
	ID    int        `json:"category_id"`
	Name  string     `json:"category_name"`
	Items []MenuItem `json:"items"`
}

type OrderItem struct {
	ID       int     `json:"id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderSubmission is the body of POST /orders and POST /orders/pending.
type OrderSubmission struct {
	Reference     string      `json:"reference,omitempty"`
	CustomerName  string      `json:"customer_name"`
	OrderType     string      `json:"order_type"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	CustomerMoney float64     `json:"customer_money"`
	Change        float64     `json:"change"`
}

type PendingOrder struct {
	ID            int     `json:"id"`
	CustomerName  string  `json:"customer_name"`
	OrderType     string  `json:"order_type"`
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

type PendingOrderDetails struct {
	PendingOrder
	Items []OrderItem `json:"items"`
}

// OrderRecord is a confirmed order as returned by GET /api/order/:id.
type OrderRecord struct {
	ID            int         `json:"id"`
	CustomerName  string      `json:"customer_name"`
	OrderType     string      `json:"order_type"`
	PaymentMethod string      `json:"payment_method"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	PlacedAt      string      `json:"placed_at"`
	Items         []OrderItem `json:"items"`
}

type YearlySales struct {
	Year        int     `json:"year"`
	TotalOrders int     `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

type MonthlySales struct {
	Month       string  `json:"month"`
	TotalOrders int     `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

type DailySales struct {
	Day         string  `json:"day"`
	TotalOrders int     `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

type RecentSale struct {
	OrderID      int     `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
	PlacedAt     string  `json:"placed_at"`
}

type TopItem struct {
	Name    string  `json:"name"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// Account is a row of GET /users_account.
type Account struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
