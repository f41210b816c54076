package views

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	msgConfirmDelete   = "Delete %s %s?"
	msgConfirmStatus   = "Change the status of %s %s to %s?"
	msgConnection      = "Unable to connect to the server. Check your connection and try again."
	msgDeleteFailed    = "Could not delete %s %s."
	msgStatusFailed    = "Could not update the status of %s %s."
	msgInvalidStatus   = "Invalid status %q for %s."
	msgUnsupported     = "The status of a %s cannot be changed."
	MsgAccessDenied    = "Access denied"
	MsgAccessDeniedFor = "You do not have permission to view %s."
	MsgGoBack          = "Go back"
	MsgGoToDashboard   = "Go to dashboard"
	MsgLoading         = "Loading..."
)

var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

var translations = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	es := map[string]string{
		msgConfirmDelete:   "¿Eliminar %s %s?",
		msgConfirmStatus:   "¿Cambiar el estado de %s %s a %s?",
		msgConnection:      "No se pudo conectar con el servidor. Verifique su conexión e intente de nuevo.",
		msgDeleteFailed:    "No se pudo eliminar %s %s.",
		msgStatusFailed:    "No se pudo actualizar el estado de %s %s.",
		msgInvalidStatus:   "Estado %q no válido para %s.",
		msgUnsupported:     "El estado de %s no se puede cambiar.",
		MsgAccessDenied:    "Acceso denegado",
		MsgAccessDeniedFor: "No tiene permiso para ver %s.",
		MsgGoBack:          "Volver",
		MsgGoToDashboard:   "Ir al panel",
		MsgLoading:         "Cargando...",

		string(KindProperty):    "propiedad",
		string(KindRoom):        "habitación",
		string(KindReservation): "reserva",
		string(KindGuest):       "huésped",
		string(KindPayment):     "pago",
		string(KindUser):        "usuario",
	}
	for key, msg := range es {
		_ = translations.SetString(language.Spanish, key, msg)
	}
	for _, key := range []string{
		msgConfirmDelete, msgConfirmStatus, msgConnection, msgDeleteFailed, msgStatusFailed,
		msgInvalidStatus, msgUnsupported, MsgAccessDenied, MsgAccessDeniedFor, MsgGoBack,
		MsgGoToDashboard, MsgLoading,
	} {
		_ = translations.SetString(language.English, key, key)
	}
}

// NewPrinter returns a printer for lang, falling back to English for
// unsupported or malformed tags.
func NewPrinter(lang string) *message.Printer {
	tag := language.English
	if t, err := language.Parse(lang); err == nil {
		_, idx, _ := matcher.Match(t)
		tag = supported[idx]
	}
	return message.NewPrinter(tag, message.Catalog(translations))
}
