package middleware

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RoleViewer     = "viewer"
)

const (
	PermAttendanceRead   = "attendance.read"
	PermAttendanceWrite  = "attendance.write"
	PermAttendanceImport = "attendance.import"
	PermAttendanceAdmin  = "attendance.admin"
	PermEmployeesRead    = "employees.read"
	PermEmployeesWrite   = "employees.write"
	PermProjectsRead     = "projects.read"
	PermProjectsWrite    = "projects.write"
	PermReportsRead      = "reports.read"
	PermSettingsWrite    = "settings.write"
)

// RolePermissions is the static permission guard table.
var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermAttendanceRead,
		PermAttendanceWrite,
		PermAttendanceImport,
		PermAttendanceAdmin,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermProjectsRead,
		PermProjectsWrite,
		PermReportsRead,
		PermSettingsWrite,
	},
	RoleManager: {
		PermAttendanceRead,
		PermAttendanceWrite,
		PermAttendanceImport,
		PermAttendanceAdmin,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermProjectsRead,
		PermProjectsWrite,
		PermReportsRead,
	},
	RoleSupervisor: {
		PermAttendanceRead,
		PermAttendanceWrite,
		PermEmployeesRead,
		PermProjectsRead,
		PermReportsRead,
	},
	RoleViewer: {
		PermAttendanceRead,
		PermEmployeesRead,
		PermProjectsRead,
		PermReportsRead,
	},
}

func HasPermission(role string, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

func KnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
