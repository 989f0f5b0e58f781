package textproc

// stopwords is the fixed set of common Spanish words excluded from
// keyword extraction. The list is inherited from the legacy ICU
// system; extending it changes which keywords existing documents
// would have been assigned, so treat it as frozen.
var stopwords = map[string]struct{}{
	"el": {}, "la": {}, "de": {}, "que": {}, "y": {}, "a": {},
	"en": {}, "un": {}, "es": {}, "se": {}, "no": {}, "te": {},
	"lo": {}, "le": {}, "da": {}, "su": {}, "por": {}, "son": {},
	"con": {}, "para": {}, "al": {}, "del": {}, "los": {}, "las": {},
	"una": {}, "como": {}, "pero": {}, "sus": {}, "han": {}, "ya": {},
	"o": {}, "si": {}, "más": {}, "este": {}, "esta": {}, "ese": {},
	"esa": {}, "esto": {}, "eso": {}, "ser": {}, "estar": {},
	"tener": {}, "hacer": {}, "todo": {}, "todos": {}, "toda": {},
	"todas": {}, "otro": {}, "otra": {}, "otros": {}, "otras": {},
}
