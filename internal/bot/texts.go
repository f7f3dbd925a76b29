package bot

const (
	textWelcome = "سلام! 👋 به ربات سفارش چاپ خوش آمدید.\n" +
		"در چند قدم مشخصات کار را انتخاب کنید تا قیمت را همین‌جا ببینید."
	textHelp = "📌 راهنما\n\n" +
		"/start شروع سفارش تازه\n" +
		"/cancel لغو سفارش در حال ثبت\n" +
		"/help همین راهنما\n\n" +
		"قیمت‌ها با تخفیف پلکانی تیراژ محاسبه می‌شوند."
	textAdminHelp = "\n\n🛠 دستورات مدیر\n" +
		"/export خروجی اکسل همه سفارش‌ها\n" +
		"/export <شماره> خروجی یک سفارش\n" +
		"/stats آمار سفارش‌ها\n" +
		"/status <شماره> <new|processing|completed|cancelled>"

	textChoosePaper      = "📄 قطع کاغذ را انتخاب کنید:"
	textCustomSizePrompt = "✏️ عرض و ارتفاع را به سانتی‌متر بفرستید، مثلاً: 21x29.7"
	textBadDimensions    = "ابعاد نامعتبر است. دو عدد مثبت مثل 21x29.7 بفرستید."
	textQuantityPrompt   = "🔢 تیراژ را انتخاب کنید یا عدد آن را بفرستید:"
	textBadQuantity      = "تیراژ باید عددی بین ۱ و ۱٬۰۰۰٬۰۰۰ باشد."
	textAddOnsPrompt     = "✨ خدمات تکمیلی را انتخاب کنید و سپس «ادامه» را بزنید:"
	textContactPrompt    = "📱 برای ثبت سفارش شماره تماس خود را بفرستید یا دکمه زیر را بزنید:"
	textBadPhone         = "شماره تماس معتبر نیست. مثال: 09123456789"
	textCancelled        = "سفارش لغو شد. برای شروع دوباره /start را بزنید."
	textIdle             = "برای ثبت سفارش /start را بزنید."
	textUseButtons       = "لطفاً یکی از دکمه‌ها را انتخاب کنید."
	textStaleButton      = "این دکمه دیگر معتبر نیست."
	textRateLimited      = "درخواست‌ها زیاد است. کمی بعد دوباره تلاش کنید."
	textInternalError    = "خطایی رخ داد. لطفاً دوباره تلاش کنید."
	textInvalidOrder     = "مشخصات سفارش معتبر نیست. لطفاً از ابتدا شروع کنید."
	textUnknownCommand   = "دستور ناشناخته است. /help را ببینید."
	textOrderNotFound    = "سفارشی با این شماره پیدا نشد."
	textOrderAmbiguous   = "این شماره با بیش از یک سفارش جور است؛ شناسه کامل را بفرستید."
	textOrderClosed      = "وضعیت سفارش بسته شده قابل تغییر نیست."
	textBadStatus        = "وضعیت نامعتبر است: new, processing, completed, cancelled"
	textStatusUsage      = "استفاده: /status <شماره سفارش> <وضعیت>"

	btnCustomSize = "✏️ اندازه دلخواه"
	btnContinue   = "ادامه ➡️"
	btnConfirm    = "✅ ثبت سفارش"
	btnRestart    = "🔁 شروع دوباره"
	btnCancel     = "❌ انصراف"
	btnContact    = "📱 ارسال شماره تماس"
)
