package notify

// All user-facing notification texts in one place.

// ── Region alerts ───────────────────────────────────────────────────

const (
	msgRegionAlert = "⚠️ <b>Повітряна тривога</b>\n\n📍 %s\n<i>%s</i>"
	msgRegionClear = "✅ <b>Відбій тривоги</b>\n\n📍 %s\n<i>%s</i>"
)

// ── Priority cities ─────────────────────────────────────────────────

const msgPriorityAlert = `🚨🚨 <b>УВАГА! ПОВІТРЯНА ТРИВОГА</b> 🚨🚨

📍 <b>%s</b>

⚠️ Негайно пройдіть в укриття!
⚠️ Слідкуйте за повідомленнями цивільного захисту!

<i>Час: %s</i>`

const msgPriorityClear = `✅ <b>ВІДБІЙ ПОВІТРЯНОЇ ТРИВОГИ</b>

📍 <b>%s</b>

ℹ️ Можна залишити укриття
ℹ️ Слідкуйте за подальшими повідомленнями

<i>Час: %s</i>`

// ── Capital-specific path ───────────────────────────────────────────

const (
	msgCapitalAlert = "🚨 У Києві повітряна тривога!"
	msgCapitalClear = "✅ У Києві відбій повітряної тривоги."
)

// ── System notifications ────────────────────────────────────────────

const (
	msgSystemAlert         = "🔧 <b>Системне сповіщення</b>\n\n%s"
	msgSystemPriorityMark  = "‼️ "
	msgEscalationTemplate  = "Проблеми з API alerts.in.ua — %d послідовних помилок"
	msgSummaryHeader       = "📊 <b>Зведення повітряних тривог</b>\n🕐 <i>%s</i>\n\n🚨 <b>Активні тривоги:</b> %d\n✅ <b>Спокійно:</b> %d\n📊 <b>Всього регіонів:</b> %d"
	msgSummaryActiveHeader = "\n\n<b>Регіони з тривогою:</b>\n"
)
