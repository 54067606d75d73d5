// Package logger es el logging estructurado de rapida sobre zap.
//
// Hay una sola instancia global, armada por Init() al arrancar el proceso.
// En "dev" escribe consola con colores; en "prod", JSON con stacktraces a
// partir de error. El nivel sale de la configuración o de LOG_LEVEL.
//
// El middleware HTTP inyecta un logger con los campos del request en el
// contexto; el resto del código lo recupera con From(ctx) y agrega sus
// propios campos con los alias de fields.go:
//
//	logger.From(ctx).Info("account restored", logger.UserID(id))
//
// Fuera de un request, L() devuelve el singleton directamente.
package logger
