package converter

import "math"

var categories = []Category{
	{
		Slug:        "length",
		Title:       "Length Converter",
		Description: "Convert between metric and imperial units of length and distance.",
		Base:        "m",
		Units: []Unit{
			{Symbol: "nm", Name: "Nanometre", Factor: 1e-9},
			{Symbol: "um", Name: "Micrometre", Factor: 1e-6},
			{Symbol: "mm", Name: "Millimetre", Factor: 1e-3},
			{Symbol: "cm", Name: "Centimetre", Factor: 1e-2},
			{Symbol: "m", Name: "Metre", Factor: 1},
			{Symbol: "km", Name: "Kilometre", Factor: 1e3},
			{Symbol: "in", Name: "Inch", Factor: 0.0254},
			{Symbol: "ft", Name: "Foot", Factor: 0.3048},
			{Symbol: "yd", Name: "Yard", Factor: 0.9144},
			{Symbol: "mi", Name: "Mile", Factor: 1609.344},
			{Symbol: "nmi", Name: "Nautical mile", Factor: 1852},
		},
	},
	{
		Slug:        "area",
		Title:       "Area Converter",
		Description: "Convert land and surface area units such as acres, hectares and square feet.",
		Base:        "m2",
		Units: []Unit{
			{Symbol: "mm2", Name: "Square millimetre", Factor: 1e-6},
			{Symbol: "cm2", Name: "Square centimetre", Factor: 1e-4},
			{Symbol: "m2", Name: "Square metre", Factor: 1},
			{Symbol: "ha", Name: "Hectare", Factor: 1e4},
			{Symbol: "km2", Name: "Square kilometre", Factor: 1e6},
			{Symbol: "in2", Name: "Square inch", Factor: 0.00064516},
			{Symbol: "ft2", Name: "Square foot", Factor: 0.09290304},
			{Symbol: "yd2", Name: "Square yard", Factor: 0.83612736},
			{Symbol: "acre", Name: "Acre", Factor: 4046.8564224},
			{Symbol: "mi2", Name: "Square mile", Factor: 2589988.110336},
		},
	},
	{
		Slug:        "volume",
		Title:       "Volume Converter",
		Description: "Convert liquid and solid volume units, US and imperial.",
		Base:        "l",
		Units: []Unit{
			{Symbol: "ml", Name: "Millilitre", Factor: 1e-3},
			{Symbol: "l", Name: "Litre", Factor: 1},
			{Symbol: "m3", Name: "Cubic metre", Factor: 1e3},
			{Symbol: "tsp", Name: "Teaspoon (US)", Factor: 0.00492892159375},
			{Symbol: "tbsp", Name: "Tablespoon (US)", Factor: 0.01478676478125},
			{Symbol: "floz", Name: "Fluid ounce (US)", Factor: 0.0295735295625},
			{Symbol: "cup", Name: "Cup (US)", Factor: 0.2365882365},
			{Symbol: "pt", Name: "Pint (US)", Factor: 0.473176473},
			{Symbol: "qt", Name: "Quart (US)", Factor: 0.946352946},
			{Symbol: "gal", Name: "Gallon (US)", Factor: 3.785411784},
			{Symbol: "impgal", Name: "Gallon (imperial)", Factor: 4.54609},
			{Symbol: "in3", Name: "Cubic inch", Factor: 0.016387064},
			{Symbol: "ft3", Name: "Cubic foot", Factor: 28.316846592},
		},
	},
	{
		Slug:        "mass",
		Title:       "Weight and Mass Converter",
		Description: "Convert grams, kilograms, pounds, ounces and more.",
		Base:        "kg",
		Units: []Unit{
			{Symbol: "mg", Name: "Milligram", Factor: 1e-6},
			{Symbol: "ct", Name: "Carat", Factor: 2e-4},
			{Symbol: "g", Name: "Gram", Factor: 1e-3},
			{Symbol: "kg", Name: "Kilogram", Factor: 1},
			{Symbol: "t", Name: "Tonne", Factor: 1e3},
			{Symbol: "oz", Name: "Ounce", Factor: 0.028349523125},
			{Symbol: "lb", Name: "Pound", Factor: 0.45359237},
			{Symbol: "st", Name: "Stone", Factor: 6.35029318},
			{Symbol: "ton", Name: "Short ton (US)", Factor: 907.18474},
		},
	},
	{
		Slug:        "temperature",
		Title:       "Temperature Converter",
		Description: "Convert Celsius, Fahrenheit, Kelvin and Rankine.",
		Base:        "k",
		Units: []Unit{
			{Symbol: "c", Name: "Celsius", Factor: 1, Offset: 273.15},
			{Symbol: "f", Name: "Fahrenheit", Factor: 5.0 / 9.0, Offset: 273.15 - 32.0*5.0/9.0},
			{Symbol: "k", Name: "Kelvin", Factor: 1},
			{Symbol: "r", Name: "Rankine", Factor: 5.0 / 9.0},
			{Symbol: "re", Name: "Réaumur", Factor: 1.25, Offset: 273.15},
		},
	},
	{
		Slug:        "pressure",
		Title:       "Pressure Converter",
		Description: "Convert pascal, bar, psi, atmosphere and mercury column units.",
		Base:        "pa",
		Units: []Unit{
			{Symbol: "pa", Name: "Pascal", Factor: 1},
			{Symbol: "hpa", Name: "Hectopascal", Factor: 100},
			{Symbol: "kpa", Name: "Kilopascal", Factor: 1e3},
			{Symbol: "mpa", Name: "Megapascal", Factor: 1e6},
			{Symbol: "mbar", Name: "Millibar", Factor: 100},
			{Symbol: "bar", Name: "Bar", Factor: 1e5},
			{Symbol: "atm", Name: "Standard atmosphere", Factor: 101325},
			{Symbol: "psi", Name: "Pound per square inch", Factor: 6894.757293168361},
			{Symbol: "torr", Name: "Torr", Factor: 101325.0 / 760.0},
			{Symbol: "mmhg", Name: "Millimetre of mercury", Factor: 133.322387415},
			{Symbol: "inhg", Name: "Inch of mercury", Factor: 3386.389},
		},
	},
	{
		Slug:        "speed",
		Title:       "Speed Converter",
		Description: "Convert km/h, mph, knots, metres per second and Mach.",
		Base:        "mps",
		Units: []Unit{
			{Symbol: "mps", Name: "Metre per second", Factor: 1},
			{Symbol: "kmh", Name: "Kilometre per hour", Factor: 1 / 3.6},
			{Symbol: "mph", Name: "Mile per hour", Factor: 0.44704},
			{Symbol: "fps", Name: "Foot per second", Factor: 0.3048},
			{Symbol: "kn", Name: "Knot", Factor: 1852.0 / 3600.0},
			{Symbol: "mach", Name: "Mach (sea level)", Factor: 340.29},
		},
	},
	{
		Slug:        "energy",
		Title:       "Energy Converter",
		Description: "Convert joules, calories, kilowatt-hours, BTU and electronvolts.",
		Base:        "j",
		Units: []Unit{
			{Symbol: "ev", Name: "Electronvolt", Factor: 1.602176634e-19},
			{Symbol: "erg", Name: "Erg", Factor: 1e-7},
			{Symbol: "j", Name: "Joule", Factor: 1},
			{Symbol: "kj", Name: "Kilojoule", Factor: 1e3},
			{Symbol: "mj", Name: "Megajoule", Factor: 1e6},
			{Symbol: "cal", Name: "Calorie", Factor: 4.184},
			{Symbol: "kcal", Name: "Kilocalorie", Factor: 4184},
			{Symbol: "wh", Name: "Watt-hour", Factor: 3600},
			{Symbol: "kwh", Name: "Kilowatt-hour", Factor: 3.6e6},
			{Symbol: "btu", Name: "British thermal unit", Factor: 1055.05585262},
			{Symbol: "ftlb", Name: "Foot-pound", Factor: 1.3558179483314004},
			{Symbol: "therm", Name: "Therm", Factor: 105505585.262},
		},
	},
	{
		Slug:        "power",
		Title:       "Power Converter",
		Description: "Convert watts, kilowatts and horsepower.",
		Base:        "w",
		Units: []Unit{
			{Symbol: "mw", Name: "Milliwatt", Factor: 1e-3},
			{Symbol: "w", Name: "Watt", Factor: 1},
			{Symbol: "kw", Name: "Kilowatt", Factor: 1e3},
			{Symbol: "megaw", Name: "Megawatt", Factor: 1e6},
			{Symbol: "hp", Name: "Horsepower (mechanical)", Factor: 745.6998715822702},
			{Symbol: "ps", Name: "Horsepower (metric)", Factor: 735.49875},
			{Symbol: "btuh", Name: "BTU per hour", Factor: 0.29307107017222},
		},
	},
	{
		Slug:        "radiation",
		Title:       "Radiation Absorbed Dose Converter",
		Description: "Convert gray, rad and joules per kilogram.",
		Base:        "gy",
		Units: []Unit{
			{Symbol: "ugy", Name: "Microgray", Factor: 1e-6},
			{Symbol: "mgy", Name: "Milligray", Factor: 1e-3},
			{Symbol: "cgy", Name: "Centigray", Factor: 1e-2},
			{Symbol: "gy", Name: "Gray", Factor: 1},
			{Symbol: "jkg", Name: "Joule per kilogram", Factor: 1},
			{Symbol: "mrad", Name: "Millirad", Factor: 1e-5},
			{Symbol: "rad", Name: "Rad", Factor: 1e-2},
		},
	},
	{
		Slug:        "radiation-dose",
		Title:       "Radiation Equivalent Dose Converter",
		Description: "Convert sievert and rem.",
		Base:        "sv",
		Units: []Unit{
			{Symbol: "usv", Name: "Microsievert", Factor: 1e-6},
			{Symbol: "msv", Name: "Millisievert", Factor: 1e-3},
			{Symbol: "sv", Name: "Sievert", Factor: 1},
			{Symbol: "mrem", Name: "Millirem", Factor: 1e-5},
			{Symbol: "rem", Name: "Rem", Factor: 1e-2},
		},
	},
	{
		Slug:        "data-storage",
		Title:       "Data Storage Converter",
		Description: "Convert bits and bytes, decimal (kB, MB) and binary (KiB, MiB) prefixes.",
		Base:        "b",
		Units: []Unit{
			{Symbol: "bit", Name: "Bit", Factor: 0.125},
			{Symbol: "b", Name: "Byte", Factor: 1},
			{Symbol: "kb", Name: "Kilobyte", Factor: 1e3},
			{Symbol: "mb", Name: "Megabyte", Factor: 1e6},
			{Symbol: "gb", Name: "Gigabyte", Factor: 1e9},
			{Symbol: "tb", Name: "Terabyte", Factor: 1e12},
			{Symbol: "pb", Name: "Petabyte", Factor: 1e15},
			{Symbol: "kib", Name: "Kibibyte", Factor: 1024},
			{Symbol: "mib", Name: "Mebibyte", Factor: 1 << 20},
			{Symbol: "gib", Name: "Gibibyte", Factor: 1 << 30},
			{Symbol: "tib", Name: "Tebibyte", Factor: 1 << 40},
		},
	},
	{
		Slug:        "data-rate",
		Title:       "Data Transfer Rate Converter",
		Description: "Convert bits and bytes per second.",
		Base:        "bps",
		Units: []Unit{
			{Symbol: "bps", Name: "Bit per second", Factor: 1},
			{Symbol: "kbps", Name: "Kilobit per second", Factor: 1e3},
			{Symbol: "mbps", Name: "Megabit per second", Factor: 1e6},
			{Symbol: "gbps", Name: "Gigabit per second", Factor: 1e9},
			{Symbol: "Bps", Name: "Byte per second", Factor: 8},
			{Symbol: "kBps", Name: "Kilobyte per second", Factor: 8e3},
			{Symbol: "MBps", Name: "Megabyte per second", Factor: 8e6},
			{Symbol: "GBps", Name: "Gigabyte per second", Factor: 8e9},
		},
	},
	{
		Slug:        "time",
		Title:       "Time Converter",
		Description: "Convert seconds, minutes, hours, days, weeks and years.",
		Base:        "s",
		Units: []Unit{
			{Symbol: "ns", Name: "Nanosecond", Factor: 1e-9},
			{Symbol: "us", Name: "Microsecond", Factor: 1e-6},
			{Symbol: "ms", Name: "Millisecond", Factor: 1e-3},
			{Symbol: "s", Name: "Second", Factor: 1},
			{Symbol: "min", Name: "Minute", Factor: 60},
			{Symbol: "h", Name: "Hour", Factor: 3600},
			{Symbol: "d", Name: "Day", Factor: 86400},
			{Symbol: "wk", Name: "Week", Factor: 604800},
			{Symbol: "mo", Name: "Month (average)", Factor: 2629746},
			{Symbol: "yr", Name: "Year (Gregorian)", Factor: 31556952},
		},
	},
	{
		Slug:        "frequency",
		Title:       "Frequency Converter",
		Description: "Convert hertz, kilohertz, gigahertz and revolutions per minute.",
		Base:        "hz",
		Units: []Unit{
			{Symbol: "hz", Name: "Hertz", Factor: 1},
			{Symbol: "khz", Name: "Kilohertz", Factor: 1e3},
			{Symbol: "mhz", Name: "Megahertz", Factor: 1e6},
			{Symbol: "ghz", Name: "Gigahertz", Factor: 1e9},
			{Symbol: "rpm", Name: "Revolution per minute", Factor: 1.0 / 60.0},
		},
	},
	{
		Slug:        "angle",
		Title:       "Angle Converter",
		Description: "Convert degrees, radians, gradians and arc units.",
		Base:        "rad",
		Units: []Unit{
			{Symbol: "rad", Name: "Radian", Factor: 1},
			{Symbol: "deg", Name: "Degree", Factor: math.Pi / 180},
			{Symbol: "grad", Name: "Gradian", Factor: math.Pi / 200},
			{Symbol: "arcmin", Name: "Minute of arc", Factor: math.Pi / 10800},
			{Symbol: "arcsec", Name: "Second of arc", Factor: math.Pi / 648000},
			{Symbol: "turn", Name: "Turn", Factor: 2 * math.Pi},
		},
	},
	{
		Slug:        "force",
		Title:       "Force Converter",
		Description: "Convert newtons, dynes, pound-force and kilogram-force.",
		Base:        "n",
		Units: []Unit{
			{Symbol: "dyn", Name: "Dyne", Factor: 1e-5},
			{Symbol: "n", Name: "Newton", Factor: 1},
			{Symbol: "kn", Name: "Kilonewton", Factor: 1e3},
			{Symbol: "lbf", Name: "Pound-force", Factor: 4.4482216152605},
			{Symbol: "kgf", Name: "Kilogram-force", Factor: 9.80665},
		},
	},
}
