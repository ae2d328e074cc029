// Package i18n provides the active-language selection used to resolve
// bilingual (_ar/_en) fields and to localize user-facing messages.
package i18n

import "os"

// Lang identifies a display language.
type Lang string

const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

// FromEnv reads MEALADMIN_LANG and falls back to English for any value
// other than "ar".
func FromEnv() Lang {
	if os.Getenv("MEALADMIN_LANG") == string(Arabic) {
		return Arabic
	}
	return English
}

// Text holds both variants of a bilingual field.
type Text struct {
	EN string
	AR string
}

// In picks the variant for lang, falling back to the other variant when
// the requested one is empty.
func (t Text) In(lang Lang) string {
	if lang == Arabic {
		if t.AR != "" {
			return t.AR
		}
		return t.EN
	}
	if t.EN != "" {
		return t.EN
	}
	return t.AR
}

var messages = map[string]Text{
	"unknown":             {EN: "Unknown", AR: "غير معروف"},
	"not_available":       {EN: "N/A", AR: "غير متوفر"},
	"available":           {EN: "Available", AR: "متاح"},
	"unavailable":         {EN: "Unavailable", AR: "غير متاح"},
	"active":              {EN: "Active", AR: "نشط"},
	"inactive":            {EN: "Inactive", AR: "غير نشط"},
	"confirm_delete":      {EN: "Delete this record? This cannot be undone.", AR: "هل تريد حذف هذا السجل؟ لا يمكن التراجع عن هذا الإجراء."},
	"confirm_refund":      {EN: "Refund this payment?", AR: "هل تريد استرداد هذه الدفعة؟"},
	"confirm_role":        {EN: "Change this user's role?", AR: "هل تريد تغيير دور هذا المستخدم؟"},
	"confirm_status":      {EN: "Change status?", AR: "هل تريد تغيير الحالة؟"},
	"confirm_set_primary": {EN: "Set this address as primary?", AR: "هل تريد تعيين هذا العنوان كعنوان رئيسي؟"},
	"created":             {EN: "Created", AR: "تم الإنشاء"},
	"updated":             {EN: "Updated", AR: "تم التحديث"},
	"deleted":             {EN: "Deleted", AR: "تم الحذف"},
	"refunded":            {EN: "Refunded", AR: "تم الاسترداد"},
	"cancelled":           {EN: "Cancelled", AR: "تم الإلغاء"},
	"operation_failed":    {EN: "Operation failed", AR: "فشلت العملية"},
}

// T resolves a message key in lang. Unknown keys return the key itself so
// a missing catalog entry is visible rather than silent.
func T(lang Lang, key string) string {
	if t, ok := messages[key]; ok {
		return t.In(lang)
	}
	return key
}
