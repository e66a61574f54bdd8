package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, MANAGER, POS_WORKER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin     = "ADMIN"
	RoleManager   = "MANAGER"
	RolePOSWorker = "POS_WORKER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleManager,
		Name:        "Store Manager",
		Description: "Manages the product catalogue, activity history and stock alerts",
	},
	{
		Code:        RolePOSWorker,
		Name:        "POS Worker",
		Description: "Views products and records sales at the till",
	},
}

// DefaultRolePrivileges lists the privilege codes each non-admin role is seeded
// with. ADMIN receives every privilege.
var DefaultRolePrivileges = map[string][]string{
	RoleManager: {
		PrivProductView, PrivProductCreate, PrivProductUpdate,
		PrivTransactionView, PrivActivityView, PrivAlertManage,
	},
	RolePOSWorker: {
		PrivProductView, PrivTransactionCreate,
	},
}
