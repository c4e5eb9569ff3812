// Package classify derives the component tags and test tags of an SBML model.
//
// Classification is a fixed sequence of passes. Each pass looks at one part
// of the model (rules, compartments, events, ...) and adds tags to a shared
// model.FeatureSet. Passes may read tags added by earlier passes: the species
// pass only reports HasOnlySubstanceUnits when the compartment pass already
// found a NonUnityCompartment, so compartments are always classified before
// species.
//
// Design decision: Symbol detection (time, avogadro, delay) walks the parsed
// math trees instead of searching the serialized model text, so an annotation
// that merely mentions a csymbol URL does not produce a tag.
package classify
