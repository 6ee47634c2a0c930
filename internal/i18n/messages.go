package i18n

var catalog = map[string]map[string]string{
	LocaleES: {
		"error.bad_request":            "Solicitud inválida",
		"error.internal":               "Error interno del servidor",
		"error.not_found":              "Recurso no encontrado",
		"error.id_invalid":             "Identificador inválido",
		"error.date_invalid":           "Fecha inválida, use AAAA-MM-DD",
		"error.unauthorized":           "No autorizado",
		"error.forbidden":              "No tiene permisos para esta acción",
		"error.jwt_secret_missing":     "El servidor no tiene configurada la clave JWT",
		"error.auth_header_missing":    "Falta el encabezado Authorization",
		"error.auth_header_invalid":    "Encabezado Authorization inválido",
		"error.token_invalid":          "Sesión inválida",
		"error.token_revoked":          "La sesión expiró, inicie sesión nuevamente",
		"error.user_disabled":          "La cuenta está desactivada",
		"error.login_invalid":          "Usuario o contraseña incorrectos",
		"error.login_too_many":         "Demasiados intentos, espere %d segundos",
		"error.rate_limited":           "Demasiadas solicitudes, espere %d segundos",
		"error.rate_limit_unavailable": "Control de intentos no disponible",

		"error.captcha_required":        "Ingrese el código de verificación",
		"error.captcha_invalid":         "Código de verificación incorrecto",
		"error.captcha_config_invalid":  "Configuración de captcha inválida",
		"error.captcha_unavailable":     "Captcha no disponible",
		"error.captcha_generate_failed": "No se pudo generar el captcha",

		"error.password_old_invalid":       "La contraseña actual es incorrecta",
		"error.password_weak":              "La contraseña no cumple la política",
		"error.password_min_length":        "La contraseña debe tener al menos %d caracteres",
		"error.password_require_upper":     "La contraseña debe incluir una mayúscula",
		"error.password_require_lower":     "La contraseña debe incluir una minúscula",
		"error.password_require_number":    "La contraseña debe incluir un número",
		"error.password_require_special":   "La contraseña debe incluir un carácter especial",
		"error.password_contains_rut":      "La contraseña no puede contener su RUT",
		"error.password_contains_username": "La contraseña no puede contener su nombre de usuario",

		"error.username_exists":    "El nombre de usuario ya existe",
		"error.rut_exists":         "El RUT ya está registrado",
		"error.role_invalid":       "Rol inválido",
		"error.role_builtin":       "Los roles del sistema no se pueden eliminar",
		"error.plant_required":     "Los guardias deben tener una planta asignada",
		"error.plant_not_found":    "Planta no encontrada",
		"error.plant_fetch_failed": "No se pudieron obtener las plantas",
		"error.user_fetch_failed":  "No se pudieron obtener los usuarios",

		"error.rut_required": "Ingrese un RUT",
		"error.rut_invalid":  "RUT inválido",
		"error.rut_format":   "RUT con formato inválido",
		"error.rut_length":   "RUT con largo inválido",
		"error.rut_checksum": "RUT inválido: el dígito verificador no coincide",

		"error.campaign_not_found":     "Campaña no encontrada",
		"error.campaign_name_required": "Ingrese el nombre de la campaña",
		"error.campaign_date_range":    "La fecha de término debe ser igual o posterior a la de inicio",
		"error.campaign_not_active":    "La campaña no está activa hoy",
		"error.campaign_fetch_failed":  "No se pudieron obtener las campañas",
		"error.roster_file_required":   "Adjunte la nómina de trabajadores",
		"error.roster_file_too_large":  "La nómina supera el tamaño permitido",
		"error.roster_file_type":       "Formato de nómina no permitido, use CSV o Excel",
		"error.roster_empty":           "La nómina está vacía",
		"error.roster_unreadable":      "No se pudo leer la planilla",
		"error.roster_malformed":       "No se reconoce el formato de la nómina",
		"error.roster_no_rows":         "La nómina no generó trabajadores",
		"error.claim_code_duplicate":   "Código de retiro duplicado",
		"error.claim_code_invalid":     "Código de retiro inválido",

		"error.blocked_date_not_found":    "Fecha bloqueada no encontrada",
		"error.blocked_date_exists":       "La fecha ya está bloqueada",
		"error.blocked_date_out_of_range": "La fecha está fuera del rango de la campaña",

		"error.worker_not_found":           "Trabajador no encontrado en campañas activas",
		"error.worker_fetch_failed":        "No se pudieron obtener los trabajadores",
		"error.pickup_not_found":           "Retiro no encontrado",
		"error.pickup_fetch_failed":        "No se pudieron obtener los retiros",
		"error.already_picked_up":          "El trabajador ya retiró su caja",
		"error.pickup_day_blocked":         "Los retiros están bloqueados hoy",
		"error.plant_mismatch":             "El trabajador pertenece a otra planta",
		"error.third_party_required":       "Ingrese nombre y RUT de la persona que retira",
		"error.note_required":              "Ingrese una nota",
		"error.authorization_not_found":    "Autorización no encontrada",
		"error.authorization_fetch_failed": "No se pudieron obtener las autorizaciones",
		"error.schedule_exists":            "Ya existe un retiro agendado para esa fecha",
		"error.schedule_in_past":           "No se puede agendar en una fecha pasada",
		"error.schedule_fetch_failed":      "No se pudo obtener la agenda",
		"error.portal_fetch_failed":        "No se pudo obtener el estado de su caja",

		"error.report_failed":          "No se pudo generar el reporte",
		"error.export_kind_invalid":    "Tipo de exportación inválido",
		"error.queue_unavailable":      "La cola de tareas no está habilitada",
		"error.enqueue_failed":         "No se pudo encolar la tarea",
		"error.renumber_in_progress":   "Ya hay una renumeración en curso",
		"error.audit_fetch_failed":     "No se pudo obtener la auditoría",
		"error.login_log_fetch_failed": "No se pudo obtener el registro de accesos",
		"error.config_fetch_failed":    "No se pudo obtener la configuración",
	},
	LocaleEN: {
		"error.bad_request":            "Invalid request",
		"error.internal":               "Internal server error",
		"error.not_found":              "Resource not found",
		"error.id_invalid":             "Invalid id",
		"error.date_invalid":           "Invalid date, use YYYY-MM-DD",
		"error.unauthorized":           "Unauthorized",
		"error.forbidden":              "You are not allowed to do this",
		"error.jwt_secret_missing":     "JWT secret is not configured",
		"error.auth_header_missing":    "Missing Authorization header",
		"error.auth_header_invalid":    "Invalid Authorization header",
		"error.token_invalid":          "Invalid session",
		"error.token_revoked":          "Session expired, please sign in again",
		"error.user_disabled":          "Account disabled",
		"error.login_invalid":          "Wrong username or password",
		"error.login_too_many":         "Too many attempts, wait %d seconds",
		"error.rate_limited":           "Too many requests, wait %d seconds",
		"error.rate_limit_unavailable": "Rate limiting unavailable",

		"error.captcha_required":        "Captcha required",
		"error.captcha_invalid":         "Wrong captcha",
		"error.captcha_config_invalid":  "Invalid captcha configuration",
		"error.captcha_unavailable":     "Captcha unavailable",
		"error.captcha_generate_failed": "Could not generate captcha",

		"error.password_old_invalid":       "Current password is wrong",
		"error.password_weak":              "Password does not meet the policy",
		"error.password_min_length":        "Password must be at least %d characters",
		"error.password_require_upper":     "Password must contain an uppercase letter",
		"error.password_require_lower":     "Password must contain a lowercase letter",
		"error.password_require_number":    "Password must contain a number",
		"error.password_require_special":   "Password must contain a special character",
		"error.password_contains_rut":      "Password must not contain your RUT",
		"error.password_contains_username": "Password must not contain your username",

		"error.username_exists":    "Username already exists",
		"error.rut_exists":         "RUT already registered",
		"error.role_invalid":       "Invalid role",
		"error.role_builtin":       "Built-in roles cannot be deleted",
		"error.plant_required":     "Guards need an assigned plant",
		"error.plant_not_found":    "Plant not found",
		"error.plant_fetch_failed": "Could not load plants",
		"error.user_fetch_failed":  "Could not load users",

		"error.rut_required": "RUT required",
		"error.rut_invalid":  "Invalid RUT",
		"error.rut_format":   "Malformed RUT",
		"error.rut_length":   "RUT has an invalid length",
		"error.rut_checksum": "Invalid RUT: check digit mismatch",

		"error.campaign_not_found":     "Campaign not found",
		"error.campaign_name_required": "Campaign name required",
		"error.campaign_date_range":    "End date must not be before start date",
		"error.campaign_not_active":    "Campaign is not active today",
		"error.campaign_fetch_failed":  "Could not load campaigns",
		"error.roster_file_required":   "Roster file required",
		"error.roster_file_too_large":  "Roster file too large",
		"error.roster_file_type":       "Roster file type not allowed, use CSV or Excel",
		"error.roster_empty":           "Roster file is empty",
		"error.roster_unreadable":      "Could not read the spreadsheet",
		"error.roster_malformed":       "Unrecognized roster layout",
		"error.roster_no_rows":         "The roster produced no workers",
		"error.claim_code_duplicate":   "Duplicate claim code",
		"error.claim_code_invalid":     "Invalid claim code",

		"error.blocked_date_not_found":    "Blocked date not found",
		"error.blocked_date_exists":       "Date already blocked",
		"error.blocked_date_out_of_range": "Date outside the campaign range",

		"error.worker_not_found":           "Worker not found in active campaigns",
		"error.worker_fetch_failed":        "Could not load workers",
		"error.pickup_not_found":           "Pickup not found",
		"error.pickup_fetch_failed":        "Could not load pickups",
		"error.already_picked_up":          "Box already picked up",
		"error.pickup_day_blocked":         "Pickups are blocked today",
		"error.plant_mismatch":             "Worker belongs to another plant",
		"error.third_party_required":       "Third party name and RUT required",
		"error.note_required":              "Note required",
		"error.authorization_not_found":    "Authorization not found",
		"error.authorization_fetch_failed": "Could not load authorizations",
		"error.schedule_exists":            "Pickup already scheduled for that date",
		"error.schedule_in_past":           "Cannot schedule in the past",
		"error.schedule_fetch_failed":      "Could not load schedules",
		"error.portal_fetch_failed":        "Could not load your box status",

		"error.report_failed":          "Could not build the report",
		"error.export_kind_invalid":    "Invalid export kind",
		"error.queue_unavailable":      "Task queue is not enabled",
		"error.enqueue_failed":         "Could not enqueue the task",
		"error.renumber_in_progress":   "A renumbering is already running",
		"error.audit_fetch_failed":     "Could not load the audit log",
		"error.login_log_fetch_failed": "Could not load the login log",
		"error.config_fetch_failed":    "Could not load configuration",
	},
}
