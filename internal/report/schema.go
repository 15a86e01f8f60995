package report

// Schema is the JSON Schema (Draft 2020-12) for the stubmock JSON
// output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/stubmock/check-report.schema.json",
  "title": "Stubmock Check Report",
  "description": "Output schema for stubmock check --format=json",
  "type": "object",
  "required": ["version", "files", "summary", "metadata"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "files": {
      "type": "array",
      "items": { "$ref": "#/$defs/FileResult" }
    },
    "summary": { "$ref": "#/$defs/Summary" },
    "metadata": { "$ref": "#/$defs/Metadata" }
  },
  "$defs": {
    "FileResult": {
      "type": "object",
      "required": ["file", "input", "findings"],
      "properties": {
        "file": {
          "type": "string",
          "description": "Ruby source file recorded in the document"
        },
        "input": {
          "type": "string",
          "description": "Path of the document the tree was read from"
        },
        "findings": {
          "type": "array",
          "items": { "$ref": "#/$defs/Finding" }
        }
      }
    },
    "Finding": {
      "type": "object",
      "required": ["id", "rule", "file", "location", "span", "message", "variant", "verb", "response"],
      "properties": {
        "id": {
          "type": "string",
          "pattern": "^sm-[0-9a-f]{8}$",
          "description": "Stable identifier (sm-<8 hex>)"
        },
        "rule": {
          "type": "string",
          "description": "Qualified rule name"
        },
        "file": { "type": "string" },
        "location": {
          "type": "string",
          "description": "Start of the span (file:line:col)"
        },
        "span": { "$ref": "#/$defs/Range" },
        "message": { "type": "string" },
        "variant": {
          "type": "string",
          "enum": ["expect", "is_expected", "are_expected", "expect_any_instance_of"]
        },
        "verb": {
          "type": "string",
          "enum": ["receive", "receive_messages", "receive_message_chain"]
        },
        "response": {
          "type": "string",
          "enum": ["and_return", "block", "inline_values", "block_pass"]
        },
        "excerpt": {
          "type": "string",
          "description": "Source line the span starts on"
        }
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
    "Position": {
      "type": "object",
      "required": ["line", "column"],
      "properties": {
        "line": { "type": "integer", "minimum": 1 },
        "column": { "type": "integer", "minimum": 1 }
      }
    },
    "Summary": {
      "type": "object",
      "required": ["files", "findings", "by_variant"],
      "properties": {
        "files": { "type": "integer", "minimum": 0 },
        "findings": { "type": "integer", "minimum": 0 },
        "by_variant": {
          "type": "object",
          "additionalProperties": { "type": "integer", "minimum": 0 }
        }
      }
    },
    "Metadata": {
      "type": "object",
      "required": ["stubmock_version", "duration_ms", "warnings"],
      "properties": {
        "stubmock_version": { "type": "string" },
        "timestamp": {
          "type": "string",
          "description": "Run start time (RFC 3339)"
        },
        "duration_ms": { "type": "integer", "minimum": 0 },
        "warnings": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    }
  }
}`
