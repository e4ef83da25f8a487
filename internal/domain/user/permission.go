package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendancePunch   Permission = "attendance.manual_punch"

	// Lateness Management
	PermissionLatenessViewOwn  Permission = "lateness.view_own"
	PermissionLatenessViewAll  Permission = "lateness.view_all"
	PermissionLatenessJustify  Permission = "lateness.justify"
	PermissionLatenessValidate Permission = "lateness.validate"

	// Absence Management
	PermissionAbsenceViewOwn  Permission = "absence.view_own"
	PermissionAbsenceViewAll  Permission = "absence.view_all"
	PermissionAbsenceJustify  Permission = "absence.justify"
	PermissionAbsenceValidate Permission = "absence.validate"
	PermissionAbsenceSweep    Permission = "absence.sweep"

	// Device Events
	PermissionDeviceViewOwn   Permission = "device.view_own"
	PermissionDeviceViewAll   Permission = "device.view_all"
	PermissionDeviceReprocess Permission = "device.reprocess"

	// Employee Directory
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions. Checked once at the
// router boundary; owner-of-record checks stay inside services.
var RolePermissions = map[Role][]Permission{
	RoleDirector: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendancePunch,
		PermissionLatenessViewOwn,
		PermissionLatenessViewAll,
		PermissionLatenessJustify,
		PermissionLatenessValidate,
		PermissionAbsenceViewOwn,
		PermissionAbsenceViewAll,
		PermissionAbsenceJustify,
		PermissionAbsenceValidate,
		PermissionAbsenceSweep,
		PermissionDeviceViewOwn,
		PermissionDeviceViewAll,
		PermissionDeviceReprocess,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
	},
	RoleHR: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendancePunch,
		PermissionLatenessViewOwn,
		PermissionLatenessViewAll,
		PermissionLatenessJustify,
		PermissionLatenessValidate,
		PermissionAbsenceViewOwn,
		PermissionAbsenceViewAll,
		PermissionAbsenceJustify,
		PermissionAbsenceValidate,
		PermissionAbsenceSweep,
		PermissionDeviceViewOwn,
		PermissionDeviceViewAll,
		PermissionDeviceReprocess,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionLatenessViewOwn,
		PermissionLatenessJustify,
		PermissionAbsenceViewOwn,
		PermissionAbsenceJustify,
		PermissionDeviceViewOwn,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
