package service

// Holiday themes offered by the caption UI.
var holidays = []string{
	"Christmas",
	"Easter",
	"Halloween",
	"Thanksgiving",
	"New Year",
	"Valentine's Day",
	"Mother's Day",
	"Father's Day",
	"Birthday",
	"Back to School",
	"Summer Fun",
	"Winter Play",
}
