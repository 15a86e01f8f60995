package loader

// DocumentSchema is the JSON Schema (Draft 2020-12) for syntax-tree
// input documents. Every document is validated against it before it is
// decoded.
const DocumentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/stubmock/syntax-document.schema.json",
  "title": "Stubmock Syntax Document",
  "description": "A Ruby syntax tree produced by an external parser",
  "type": "object",
  "required": ["version", "file", "root"],
  "properties": {
    "version": {
      "const": "1",
      "description": "Document format version"
    },
    "file": {
      "type": "string",
      "minLength": 1,
      "description": "Path of the Ruby source the tree was built from"
    },
    "source": {
      "type": "string",
      "description": "Original source text, used for excerpts"
    },
    "root": { "$ref": "#/$defs/Node" }
  },
  "$defs": {
    "Position": {
      "type": "object",
      "required": ["line", "column"],
      "properties": {
        "line": { "type": "integer", "minimum": 1 },
        "column": { "type": "integer", "minimum": 1 }
      }
    },
    "Range": {
      "type": "object",
      "required": ["begin", "end"],
      "properties": {
        "begin": { "$ref": "#/$defs/Position" },
        "end": { "$ref": "#/$defs/Position" }
      }
    },
    "OptionalNode": {
      "anyOf": [
        { "type": "null" },
        { "$ref": "#/$defs/Node" }
      ]
    },
    "Node": {
      "type": "object",
      "required": ["type", "range"],
      "properties": {
        "type": { "type": "string", "minLength": 1 },
        "range": { "$ref": "#/$defs/Range" },
        "receiver": { "$ref": "#/$defs/OptionalNode" },
        "method": { "type": "string" },
        "args": {
          "type": "array",
          "items": { "$ref": "#/$defs/Node" }
        },
        "call": { "$ref": "#/$defs/Node" },
        "params": {
          "type": "array",
          "items": { "type": "string" }
        },
        "body": { "$ref": "#/$defs/OptionalNode" },
        "value": { "type": "string" },
        "children": {
          "type": "array",
          "items": { "$ref": "#/$defs/Node" }
        }
      },
      "allOf": [
        {
          "if": {
            "properties": { "type": { "enum": ["send", "csend"] } }
          },
          "then": { "required": ["method"] }
        },
        {
          "if": {
            "properties": { "type": { "enum": ["block", "numblock", "itblock"] } }
          },
          "then": { "required": ["call"] }
        }
      ]
    }
  }
}`
