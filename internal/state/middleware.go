package state

import "go.uber.org/zap"

func loggingMiddleware(logger *zap.Logger) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(a Action) {
			fields := []zap.Field{
				zap.String("action", a.Type()),
				zap.String("namespace", string(a.Namespace())),
			}
			if async, ok := a.(AsyncAction); ok && async.Phase() == PhaseRejected {
				logger.Warn("async operation rejected", append(fields, zap.String("error", rejectionMessage(a)))...)
			} else {
				logger.Debug("dispatch", fields...)
			}
			next(a)
		}
	}
}

func rejectionMessage(a Action) string {
	switch a := a.(type) {
	case CatalogRejected:
		return a.Message
	case FilterRejected:
		return a.Message
	case AuthRejected:
		return a.Message
	}
	return ""
}
