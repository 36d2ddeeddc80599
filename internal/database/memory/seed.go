package memory

import (
	"strconv"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/models"
)

type seedEntry struct {
	name        string
	description string
	category    string
	url         string
	icon        string
	popularity  int64
}

// The fixed catalog loaded into fallback mode at startup. Ids are assigned
// positionally so they stay stable across restarts.
var catalog = []seedEntry{
	{"Password Generator", "Generate secure passwords with customizable options", models.CategoryUtility, "/tools/password-generator", "key", 120},
	{"QR Code Generator", "Create custom QR codes for websites, text, and contact information", models.CategoryUtility, "/tools/qr-generator", "qrcode", 95},
	{"File Converter", "Convert files between different formats (PDF, DOC, JPG, etc.)", models.CategoryUtility, "/tools/file-converter", "file-export", 87},
	{"Unit Converter", "Convert measurements between various units (length, weight, temperature)", models.CategoryUtility, "/tools/unit-converter", "exchange-alt", 103},
	{"URL Shortener", "Create short, memorable URLs from long web addresses", models.CategoryUtility, "/tools/url-shortener", "link", 115},
	{"Text Editor", "Simple online text editor with formatting options", models.CategoryUtility, "/tools/text-editor", "edit", 78},
	{"Note Taking App", "Quick note taking with sync across devices", models.CategoryUtility, "/tools/notes", "sticky-note", 85},
	{"Timer & Stopwatch", "Precision timer and stopwatch for all your timing needs", models.CategoryUtility, "/tools/timer", "stopwatch", 92},
	{"Scientific Calculator", "Advanced calculator with trigonometric, logarithmic, and statistical functions", models.CategoryCalculators, "/tools/scientific-calculator", "calculator", 78},
	{"Financial Calculator", "Calculate loans, investments, interest rates, and financial planning", models.CategoryCalculators, "/tools/financial-calculator", "money-bill-wave", 89},
	{"BMI Calculator", "Calculate Body Mass Index and assess health metrics", models.CategoryCalculators, "/tools/bmi-calculator", "weight", 112},
	{"Age Calculator", "Calculate age in years, months, days from birthdate", models.CategoryCalculators, "/tools/age-calculator", "birthday-cake", 67},
	{"Mortgage Calculator", "Calculate mortgage payments and compare loan options", models.CategoryCalculators, "/tools/mortgage-calculator", "home", 74},
	{"Tax Calculator", "Calculate taxes based on income and deductions", models.CategoryCalculators, "/tools/tax-calculator", "balance-scale", 63},
	{"Tip Calculator", "Quickly calculate tips for restaurants and services", models.CategoryCalculators, "/tools/tip-calculator", "hand-holding-usd", 81},
	{"Fuel Cost Calculator", "Calculate fuel costs for trips based on distance and vehicle efficiency", models.CategoryCalculators, "/tools/fuel-cost-calculator", "gas-pump", 56},
	{"Text Formatter", "Format and clean up text with various styling options", models.CategoryText, "/tools/text-formatter", "font", 91},
	{"Case Converter", "Change text case (uppercase, lowercase, title case)", models.CategoryText, "/tools/case-converter", "text-height", 76},
	{"Character Counter", "Count characters, words, and lines in text", models.CategoryText, "/tools/character-counter", "paragraph", 84},
	{"Spell Checker", "Check spelling and grammar in your text", models.CategoryText, "/tools/spell-checker", "spell-check", 73},
	{"Text to Speech", "Convert text to spoken audio", models.CategoryText, "/tools/text-to-speech", "volume-up", 69},
	{"Plagiarism Checker", "Check text for potential plagiarism", models.CategoryText, "/tools/plagiarism-checker", "search", 58},
	{"Word Counter", "Count words, sentences, and paragraphs", models.CategoryText, "/tools/word-counter", "font", 71},
	{"Text Reverser", "Reverse text character by character", models.CategoryText, "/tools/text-reverser", "undo", 45},
	{"Image Compressor", "Reduce image file size without losing quality", models.CategoryImage, "/tools/image-compressor", "compress", 109},
	{"Image Resizer", "Resize images to specific dimensions or percentages", models.CategoryImage, "/tools/image-resizer", "expand", 98},
	{"Watermark Tool", "Add watermarks to protect your images", models.CategoryImage, "/tools/watermark-tool", "stamp", 82},
	{"Color Picker", "Select colors from images or create custom palettes", models.CategoryImage, "/tools/color-picker", "palette", 75},
	{"Image Cropper", "Crop images to specific dimensions or aspect ratios", models.CategoryImage, "/tools/image-cropper", "crop", 87},
	{"Image Format Converter", "Convert between different image formats (JPG, PNG, GIF, etc.)", models.CategoryImage, "/tools/image-format-converter", "sync", 79},
	{"Image Brightness Adjuster", "Adjust brightness, contrast, and saturation of images", models.CategoryImage, "/tools/image-adjuster", "sun", 64},
	{"Screenshot Tool", "Take and annotate screenshots directly in the browser", models.CategoryImage, "/tools/screenshot-tool", "camera", 52},
	{"JSON Formatter", "Format and validate JSON data with syntax highlighting", models.CategoryDeveloper, "/tools/json-formatter", "code", 125},
	{"Regex Tester", "Test regular expressions with live pattern matching", models.CategoryDeveloper, "/tools/regex-tester", "search", 118},
	{"Code Minifier", "Minify CSS, JS, and HTML code for better performance", models.CategoryDeveloper, "/tools/code-minifier", "cut", 105},
	{"API Testing Tool", "Test and debug API endpoints with a simple interface", models.CategoryDeveloper, "/tools/api-testing", "plug", 97},
	{"Base64 Encoder/Decoder", "Encode and decode Base64 strings", models.CategoryDeveloper, "/tools/base64", "lock", 88},
	{"HTML Entity Encoder/Decoder", "Encode and decode HTML entities", models.CategoryDeveloper, "/tools/html-entities", "code", 72},
	{"Timestamp Converter", "Convert timestamps to and from human-readable dates", models.CategoryDeveloper, "/tools/timestamp-converter", "clock", 83},
	{"Hash Generator", "Generate MD5, SHA1, SHA256 hashes for strings", models.CategoryDeveloper, "/tools/hash-generator", "hashtag", 77},
	{"Currency Converter", "Convert between different world currencies with live rates", models.CategoryConverter, "/tools/currency-converter", "dollar-sign", 145},
	{"Time Zone Converter", "Convert time between different time zones around the world", models.CategoryConverter, "/tools/timezone-converter", "clock", 138},
	{"Temperature Converter", "Convert temperatures between Celsius, Fahrenheit, and Kelvin", models.CategoryConverter, "/tools/temperature-converter", "thermometer-half", 86},
	{"Binary Converter", "Convert numbers between decimal, binary, octal, and hexadecimal", models.CategoryConverter, "/tools/binary-converter", "binary", 79},
	{"Data Size Converter", "Convert between different data storage units (KB, MB, GB, etc.)", models.CategoryConverter, "/tools/data-size-converter", "database", 68},
	{"Speed Converter", "Convert between different speed units (km/h, mph, m/s, etc.)", models.CategoryConverter, "/tools/speed-converter", "tachometer-alt", 54},
	{"Area Converter", "Convert between different area units (square meters, acres, etc.)", models.CategoryConverter, "/tools/area-converter", "draw-polygon", 49},
	{"Volume Converter", "Convert between different volume units (liters, gallons, etc.)", models.CategoryConverter, "/tools/volume-converter", "fill-drip", 57},
}

func seedTools() []models.Tool {
	now := time.Now()
	tools := make([]models.Tool, 0, len(catalog))
	for i, entry := range catalog {
		tools = append(tools, models.Tool{
			ID:          strconv.Itoa(i + 1),
			Name:        entry.name,
			Description: entry.description,
			Category:    entry.category,
			URL:         entry.url,
			Icon:        entry.icon,
			Popularity:  entry.popularity,
			IsActive:    true,
			CreatedAt:   now,
		})
	}
	return tools
}
