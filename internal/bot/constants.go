package bot

const (
	StepIdle       = ""
	StepPaperSize  = "paper_size"
	StepCustomSize = "custom_size"
	StepMaterial   = "material"
	StepWeight     = "weight"
	StepColorMode  = "color_mode"
	StepSides      = "sides"
	StepLamination = "lamination"
	StepAddOns     = "add_ons"
	StepQuantity   = "quantity"
	StepConfirm    = "confirm"
	StepContact    = "contact"
)

// Callback data prefixes.
const (
	cbPaper    = "paper"
	cbOption   = "opt"
	cbAddOn    = "addon"
	cbQuantity = "qty"
	cbConfirm  = "confirm"
	cbRestart  = "restart"
	cbCancel   = "cancel"
	cbStatus   = "status"

	addOnsDone = "done"
)

// quantityPresets are offered as buttons on the quantity step.
var quantityPresets = []int{100, 500, 1000, 2000, 5000}
