// Package translate probes which SBML levels and versions a model can be
// converted to, and writes each clean conversion next to the input file.
//
// The input file name must contain the token of its own level and version,
// such as "l2v4" in "00001-sbml-l2v4.xml". Each translation is written to the
// name obtained by replacing that token, so "00001-sbml-l3v1.xml" holds the
// Level 3 Version 1 form of the same model.
//
// Design decision: A target is only recorded once its file is on disk. A
// failed write drops the target from the result even though the conversion
// itself was clean; the levels line of the report then lists exactly the
// files a test runner will find.
package translate
