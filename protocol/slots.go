package protocol

// ReservedSlotCount is the number of slot ids reserved for viewer-
// seeded defaults (§3: "slots 0..127 reserved for viewer-seeded
// defaults").
const ReservedSlotCount = 128

// IsReservedSlot reports whether id falls in the viewer-owned range.
func IsReservedSlot(id int) bool {
	return id >= 0 && id < ReservedSlotCount
}

// Standard reserved slot ids. A real deployment may choose its own
// assignment; these are the defaults DefaultSlots seeds, chosen simply
// to keep low ids human-readable during development.
const (
	SlotColorPrimary    = 0
	SlotColorSecondary  = 1
	SlotColorBackground = 2
	SlotColorForeground = 3
	SlotColorMuted      = 4
	SlotColorError      = 5
	SlotColorWarning    = 6
	SlotColorSuccess    = 7

	SlotKeybindQuit   = 16
	SlotKeybindSubmit = 17
	SlotKeybindCancel = 18

	SlotTransitionFade  = 24
	SlotTransitionSlide = 25

	SlotTextSizeSmall  = 32
	SlotTextSizeMedium = 33
	SlotTextSizeLarge  = 34
)

// DefaultSlots returns the viewer-seeded standard values for the
// reserved slot range (§3 Slot-value variants: "Reserved slots 0..127
// are populated by the viewer on connect with standard values"). A
// viewer calls this once at connect time and, per the same paragraph,
// wins any conflict a source attempts on these ids thereafter.
func DefaultSlots() map[int]SlotValue {
	return map[int]SlotValue{
		SlotColorPrimary:    ColorSlot{Role: "primary", Value: "#4a9eff"},
		SlotColorSecondary:  ColorSlot{Role: "secondary", Value: "#8a8a8a"},
		SlotColorBackground: ColorSlot{Role: "background", Value: "#1e1e1e"},
		SlotColorForeground: ColorSlot{Role: "foreground", Value: "#e0e0e0"},
		SlotColorMuted:      ColorSlot{Role: "muted", Value: "#6b6b6b"},
		SlotColorError:      ColorSlot{Role: "error", Value: "#e54b4b"},
		SlotColorWarning:    ColorSlot{Role: "warning", Value: "#e5a74b"},
		SlotColorSuccess:    ColorSlot{Role: "success", Value: "#4be57a"},

		SlotKeybindQuit:   KeybindSlot{Action: "quit", Key: "ctrl+c"},
		SlotKeybindSubmit: KeybindSlot{Action: "submit", Key: "enter"},
		SlotKeybindCancel: KeybindSlot{Action: "cancel", Key: "escape"},

		SlotTransitionFade:  TransitionSlot{Role: "fade", DurationMs: 150, Easing: "ease-out"},
		SlotTransitionSlide: TransitionSlot{Role: "slide", DurationMs: 200, Easing: "ease-in-out"},

		SlotTextSizeSmall:  TextSizeSlot{Role: "small", Value: 12},
		SlotTextSizeMedium: TextSizeSlot{Role: "medium", Value: 14},
		SlotTextSizeLarge:  TextSizeSlot{Role: "large", Value: 18},
	}
}
