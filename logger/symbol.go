package logger

import (
	"github.com/fujidana/specref/sym"
)

// Symbol-aware logging helpers.
// The glyph goes into a structured field, not the message, so logs stay
// queryable by subsystem.

// RegistryInfow logs a registry event with the registry symbol (⊞)
func RegistryInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, withSymbol(sym.Registry, keysAndValues)...)
	}
}

// RegistryDebugw logs a registry debug event with the registry symbol (⊞)
func RegistryDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, withSymbol(sym.Registry, keysAndValues)...)
	}
}

// ConfigInfow logs a configuration event with the config symbol (≡)
func ConfigInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, withSymbol(sym.Config, keysAndValues)...)
	}
}

// ManualDebugw logs a manual rendering event with the manual symbol (▤)
func ManualDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, withSymbol(sym.Manual, keysAndValues)...)
	}
}

func withSymbol(symbol string, keysAndValues []interface{}) []interface{} {
	return append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
}
