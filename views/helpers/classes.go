package helpers

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// MergeClasses joins Tailwind class lists, letting later utilities override
// conflicting earlier ones ("px-2", "px-4" -> "px-4").
func MergeClasses(classes ...string) string {
	return twmerge.Merge(classes...)
}

const (
	ButtonBase      = "inline-flex items-center justify-center rounded-md px-4 py-2 text-sm font-medium transition-colors disabled:cursor-not-allowed disabled:opacity-50"
	ButtonPrimary   = "bg-blue-600 text-white hover:bg-blue-700"
	ButtonSecondary = "bg-gray-100 text-gray-800 hover:bg-gray-200"
	ButtonDanger    = "bg-red-600 text-white hover:bg-red-700"
	InputBase       = "mt-1 block w-full rounded-md border border-gray-300 px-3 py-2 text-sm shadow-sm focus:border-blue-500 focus:outline-none"
	CardBase        = "rounded-lg border border-gray-200 bg-white p-6 shadow-sm"
)

// Button returns the classes of a button variant
func Button(variant string, extra ...string) string {
	return MergeClasses(append([]string{ButtonBase, variant}, extra...)...)
}
