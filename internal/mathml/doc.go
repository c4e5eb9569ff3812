// Package mathml provides the mathematical expression layer used by the SBML
// reader and writer.
//
// Expressions are held as a small abstract syntax tree (Node). Trees are built
// from two sources:
//   - Content MathML elements, as found in SBML Level 2 and Level 3 documents
//   - Level 1 infix formula strings (for example "k1 * S1 / (Km + S1)")
//
// and can be rendered back as either form. FormulaToString produces the
// infix text used throughout the generated test-suite descriptions.
//
// Design decision: We keep csymbols (time, delay, avogadro, rateOf) as
// dedicated node types instead of generic names. Feature detection can then
// walk the tree and look for a node type, rather than searching serialized
// XML for a definitionURL substring.
package mathml
