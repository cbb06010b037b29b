package resolve

// predefined are the global names provided by the language and the browser. Unresolved lookups of these names do not produce a diagnostic.
var predefined = map[string]bool{
	// language
	"undefined": true, "NaN": true, "Infinity": true, "eval": true, "isNaN": true, "isFinite": true,
	"parseInt": true, "parseFloat": true, "encodeURI": true, "encodeURIComponent": true,
	"decodeURI": true, "decodeURIComponent": true, "escape": true, "unescape": true,
	"Object": true, "Function": true, "Array": true, "String": true, "Boolean": true, "Number": true,
	"Date": true, "RegExp": true, "Math": true, "JSON": true,
	"Error": true, "EvalError": true, "RangeError": true, "ReferenceError": true, "SyntaxError": true,
	"TypeError": true, "URIError": true,

	// browser
	"window": true, "document": true, "navigator": true, "location": true, "history": true,
	"screen": true, "self": true, "top": true, "parent": true, "frames": true, "console": true,
	"alert": true, "confirm": true, "prompt": true, "setTimeout": true, "clearTimeout": true,
	"setInterval": true, "clearInterval": true, "XMLHttpRequest": true, "ActiveXObject": true,
	"Image": true, "Option": true, "event": true,
}
