package java

// JDKKind classifies well-known platform types that are rarely on the
// classpath handed to confdoc.
type JDKKind int

const (
	JDKOther JDKKind = iota
	// JDKConvertible types bind from a single string.
	JDKConvertible
	JDKEnum
	JDKCollection
	JDKMap
)

var jdkTypes = map[string]JDKKind{
	"java.lang.String":         JDKConvertible,
	"java.lang.CharSequence":   JDKConvertible,
	"java.lang.Boolean":        JDKConvertible,
	"java.lang.Byte":           JDKConvertible,
	"java.lang.Short":          JDKConvertible,
	"java.lang.Integer":        JDKConvertible,
	"java.lang.Long":           JDKConvertible,
	"java.lang.Float":          JDKConvertible,
	"java.lang.Double":         JDKConvertible,
	"java.lang.Character":      JDKConvertible,
	"java.lang.Number":         JDKConvertible,
	"java.lang.Class":          JDKConvertible,
	"java.lang.Object":         JDKOther,
	"java.math.BigDecimal":     JDKConvertible,
	"java.math.BigInteger":     JDKConvertible,
	"java.io.File":             JDKConvertible,
	"java.net.URI":             JDKConvertible,
	"java.net.URL":             JDKConvertible,
	"java.net.InetAddress":     JDKConvertible,
	"java.nio.file.Path":       JDKConvertible,
	"java.nio.charset.Charset": JDKConvertible,
	"java.time.Duration":       JDKConvertible,
	"java.time.Period":         JDKConvertible,
	"java.time.Instant":        JDKConvertible,
	"java.time.LocalDate":      JDKConvertible,
	"java.time.LocalTime":      JDKConvertible,
	"java.time.LocalDateTime":  JDKConvertible,
	"java.time.ZoneId":         JDKConvertible,
	"java.util.Locale":         JDKConvertible,
	"java.util.UUID":           JDKConvertible,
	"java.util.Currency":       JDKConvertible,
	"java.util.TimeZone":       JDKConvertible,
	"java.util.Optional":       JDKOther,
	"java.util.regex.Pattern":  JDKConvertible,

	"org.springframework.core.io.Resource":      JDKConvertible,
	"org.springframework.util.unit.DataSize":    JDKConvertible,
	"org.springframework.util.unit.DataUnit":    JDKEnum,
	"org.springframework.http.HttpMethod":       JDKConvertible,
	"org.springframework.http.HttpStatus":       JDKEnum,
	"org.springframework.http.MediaType":        JDKConvertible,
	"org.springframework.boot.logging.LogLevel": JDKEnum,

	"java.time.DayOfWeek":                    JDKEnum,
	"java.time.Month":                        JDKEnum,
	"java.time.temporal.ChronoUnit":          JDKEnum,
	"java.util.concurrent.TimeUnit":          JDKEnum,
	"java.math.RoundingMode":                 JDKEnum,
	"java.nio.file.StandardOpenOption":       JDKEnum,
	"java.lang.annotation.RetentionPolicy":   JDKEnum,
	"java.lang.annotation.ElementType":       JDKEnum,
	"java.lang.Thread.State":                 JDKEnum,
	"java.util.Collection":                   JDKCollection,
	"java.util.List":                         JDKCollection,
	"java.util.ArrayList":                    JDKCollection,
	"java.util.LinkedList":                   JDKCollection,
	"java.util.Set":                          JDKCollection,
	"java.util.HashSet":                      JDKCollection,
	"java.util.LinkedHashSet":                JDKCollection,
	"java.util.SortedSet":                    JDKCollection,
	"java.util.TreeSet":                      JDKCollection,
	"java.util.EnumSet":                      JDKCollection,
	"java.util.Queue":                        JDKCollection,
	"java.util.Deque":                        JDKCollection,
	"java.util.Map":                          JDKMap,
	"java.util.HashMap":                      JDKMap,
	"java.util.LinkedHashMap":                JDKMap,
	"java.util.SortedMap":                    JDKMap,
	"java.util.TreeMap":                      JDKMap,
	"java.util.EnumMap":                      JDKMap,
	"java.util.Properties":                   JDKMap,
	"java.util.concurrent.ConcurrentMap":     JDKMap,
	"java.util.concurrent.ConcurrentHashMap": JDKMap,
}

// LookupJDKType returns the kind of a well-known platform type.
func LookupJDKType(qualified string) (JDKKind, bool) {
	kind, ok := jdkTypes[qualified]
	return kind, ok
}

// javaLang lists the java.lang types resolvable by simple name without a
// classpath.
var javaLang = map[string]bool{
	"Object":              true, "String": true, "CharSequence": true, "Boolean": true,
	"Byte":                true, "Short": true, "Integer": true, "Long": true, "Float": true,
	"Double":              true, "Character": true, "Number": true, "Math": true,
	"StrictMath":          true, "Class": true, "Enum": true, "Record": true,
	"System":              true, "Thread": true, "Runtime": true, "Void": true,
	"StringBuilder":       true, "Iterable": true, "Comparable": true,
	"Deprecated":          true, "Override": true, "SuppressWarnings": true,
	"FunctionalInterface": true, "SafeVarargs": true,
}

// jdkConstants holds the values of public static constants of platform
// classes, keyed by binary class name and field, as String.valueOf would
// print them.
var jdkConstants = map[string]string{
	"java/lang/Integer.MAX_VALUE":                  "2147483647",
	"java/lang/Integer.MIN_VALUE":                  "-2147483648",
	"java/lang/Integer.SIZE":                       "32",
	"java/lang/Integer.BYTES":                      "4",
	"java/lang/Long.MAX_VALUE":                     "9223372036854775807",
	"java/lang/Long.MIN_VALUE":                     "-9223372036854775808",
	"java/lang/Long.SIZE":                          "64",
	"java/lang/Long.BYTES":                         "8",
	"java/lang/Short.MAX_VALUE":                    "32767",
	"java/lang/Short.MIN_VALUE":                    "-32768",
	"java/lang/Byte.MAX_VALUE":                     "127",
	"java/lang/Byte.MIN_VALUE":                     "-128",
	"java/lang/Character.MAX_VALUE":                "\uffff",
	"java/lang/Character.MIN_VALUE":                "\x00",
	"java/lang/Double.MAX_VALUE":                   "1.7976931348623157E308",
	"java/lang/Double.MIN_VALUE":                   "4.9E-324",
	"java/lang/Double.POSITIVE_INFINITY":           "Infinity",
	"java/lang/Double.NEGATIVE_INFINITY":           "-Infinity",
	"java/lang/Double.NaN":                         "NaN",
	"java/lang/Float.MAX_VALUE":                    "3.4028235E38",
	"java/lang/Float.MIN_VALUE":                    "1.4E-45",
	"java/lang/Float.POSITIVE_INFINITY":            "Infinity",
	"java/lang/Float.NEGATIVE_INFINITY":            "-Infinity",
	"java/lang/Float.NaN":                          "NaN",
	"java/lang/Boolean.TRUE":                       "true",
	"java/lang/Boolean.FALSE":                      "false",
	"java/lang/Math.PI":                            "3.141592653589793",
	"java/lang/Math.E":                             "2.718281828459045",
	"java/io/File.separator":                       "/",
	"java/io/File.pathSeparator":                   ":",
	"java/time/Duration.ZERO":                      "PT0S",
	"java/math/BigDecimal.ZERO":                    "0",
	"java/math/BigDecimal.ONE":                     "1",
	"java/math/BigDecimal.TEN":                     "10",
	"java/math/BigInteger.ZERO":                    "0",
	"java/math/BigInteger.ONE":                     "1",
	"java/math/BigInteger.TWO":                     "2",
	"java/math/BigInteger.TEN":                     "10",
	"java/nio/charset/StandardCharsets.UTF_8":      "UTF-8",
	"java/nio/charset/StandardCharsets.US_ASCII":   "US-ASCII",
	"java/nio/charset/StandardCharsets.ISO_8859_1": "ISO-8859-1",
	"java/nio/charset/StandardCharsets.UTF_16":     "UTF-16",
	"java/util/Locale.ENGLISH":                     "en",
	"java/util/Locale.US":                          "en_US",
	"java/util/Locale.UK":                          "en_GB",
	"java/util/Locale.GERMANY":                     "de_DE",
	"java/util/Locale.ROOT":                        "",
}
