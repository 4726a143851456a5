// services/translation.go - Locale overrides for achievement text
package services

// Translation is a localized title/description override.
type Translation struct {
	Title       string
	Description string
}

// Translator resolves a translation key for a language. Handlers hold one
// as an interface so tests can substitute fixtures.
type Translator interface {
	Translate(key, language string) (Translation, bool)
}

// StaticTranslator serves translations from an in-memory table keyed by
// language then key. The achievement engine only ever supplies the key;
// the text lives here.
type StaticTranslator struct {
	table map[string]map[string]Translation
}

func NewStaticTranslator() *StaticTranslator {
	return &StaticTranslator{table: defaultTranslations}
}

// NewFixtureTranslator wraps an arbitrary table, for tests.
func NewFixtureTranslator(table map[string]map[string]Translation) *StaticTranslator {
	return &StaticTranslator{table: table}
}

func (t *StaticTranslator) Translate(key, language string) (Translation, bool) {
	byKey, ok := t.table[language]
	if !ok {
		return Translation{}, false
	}
	tr, ok := byKey[key]
	return tr, ok
}

var defaultTranslations = map[string]map[string]Translation{
	"es": {
		"financial.first_note":        {Title: "Primera Nota", Description: "Registra tu primer gasto"},
		"financial.bookkeeper":        {Title: "Contable", Description: "Registra 50 gastos"},
		"financial.ledger_master":     {Title: "Maestro del Libro", Description: "Registra 500 gastos"},
		"financial.week_of_diligence": {Title: "Semana de Diligencia", Description: "Registra gastos 7 días seguidos"},
		"financial.iron_habit":        {Title: "Hábito de Hierro", Description: "Registra gastos 30 días seguidos"},
		"financial.sharp_shooter":     {Title: "Buen Tino", Description: "Mantente dentro del 15% de tu presupuesto mensual"},
		"financial.bullseye":          {Title: "Diana", Description: "Mantente dentro del 5% de tu presupuesto mensual"},
		"financial.perfect_balance":   {Title: "Equilibrio Perfecto", Description: "Termina un mes con ingresos iguales a gastos"},
		"financial.in_the_black":      {Title: "En Números Negros", Description: "Gana más de lo que gastas 3 meses seguidos"},
		"financial.belt_tightener":    {Title: "Cinturón Apretado", Description: "Reduce el gasto mensual un 20% frente al mes pasado"},
		"financial.no_spend_day":      {Title: "Día Sin Gastos", Description: "Pasa un día entero sin gastar"},
		"tasks.first_done":            {Title: "Primera Tarea", Description: "Completa tu primera tarea"},
		"tasks.finisher":              {Title: "Finalizador", Description: "Completa 100 tareas"},
		"tasks.week_streak":           {Title: "Racha Semanal", Description: "Completa una tarea cada día durante 7 días"},
		"tasks.right_on_time":         {Title: "Justo a Tiempo", Description: "Completa una tarea antes de su fecha límite"},
		"tasks.quick_draw":            {Title: "Rápido", Description: "Completa una tarea en 30 minutos desde su creación"},
		"tasks.productive_day":        {Title: "Día Productivo", Description: "Completa 5 tareas en un día"},
		"tasks.productive_week":       {Title: "Semana Productiva", Description: "Completa 20 tareas en una semana"},
		"tasks.productive_month":      {Title: "Mes Productivo", Description: "Completa 60 tareas en un mes"},
		"tasks.closer":                {Title: "Cerrador", Description: "Termina el 80% de las tareas que creas en un mes"},
		"tasks.clean_slate":           {Title: "Borrón y Cuenta Nueva", Description: "Termina todas las tareas que vencen hoy"},
		"tasks.deadline_keeper":       {Title: "Guardián de Plazos", Description: "Termina a tiempo el 90% de lo completado este mes"},
	},
}
