package weather

// iconTable maps the provider codes the widget has artwork for. Thunderstorm
// (11x) and mist (50x) codes are absent and fall back to IconClear.
var iconTable = map[IconCode]Icon{
	"01d": IconClear,
	"01n": IconClear,
	"02d": IconCloud,
	"02n": IconCloud,
	"03d": IconCloud,
	"03n": IconCloud,
	"04d": IconDrizzle,
	"04n": IconDrizzle,
	"09d": IconRain,
	"09n": IconRain,
	"10d": IconRain,
	"10n": IconRain,
	"13d": IconSnow,
	"13n": IconSnow,
}

// ResolveIcon returns the icon for a provider code, or IconClear for any
// code not in the table.
func ResolveIcon(code IconCode) Icon {
	if icon, ok := iconTable[code]; ok {
		return icon
	}
	return IconClear
}

// Icons lists every distinct icon the table can resolve to.
func Icons() []Icon {
	return []Icon{IconClear, IconCloud, IconDrizzle, IconRain, IconSnow}
}
