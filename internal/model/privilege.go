package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Checkout and sales
	{Code: "sale:view", Name: "View Sales"},
	{Code: "sale:create", Name: "Commit Sale"},
	// Returns
	{Code: "return:view", Name: "View Returns"},
	{Code: "return:create", Name: "Accept Return"},
	// Credits
	{Code: "credit:view", Name: "View Credits"},
	{Code: "credit:record_payment", Name: "Record Credit Payment"},
	// Price overrides
	{Code: "override:validate", Name: "Validate Override Code"},
	// Catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "customer:view", Name: "View Customer"},
	{Code: "customer:create", Name: "Create Customer"},
	{Code: "customer:update", Name: "Update Customer"},
	// Reporting
	{Code: "report:view", Name: "View Reports"},
	// User management (ADMIN only)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
}

// CashierPrivileges is the working set for the CASHIER role.
var CashierPrivileges = []string{
	"sale:view", "sale:create", "override:validate", "product:view", "customer:view",
}

// ManagerExcluded are the codes withheld from MANAGER (user management).
var ManagerExcluded = map[string]bool{
	"user:create": true,
	"user:update": true,
	"user:delete": true,
}
