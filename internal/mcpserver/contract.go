package mcpserver

// FormatNotes explains how gedreader reads lineage files and what the
// parsed fields mean. LLM consumers should read it before importing trees.
const FormatNotes = `# gedreader Format Notes

gedreader reads lineage-linked genealogy text (GEDCOM style). Parsing is
tolerant: it does not validate tags or levels, it only splits, classifies
and links records.

## File layout

` + "```" + `
0 HEAD
1 GEDC
2 VERS 7.0
0 @I1@ INDI
1 NAME John /Smith/
1 FAMS @F1@
0 @F1@ FAM
1 HUSB @I1@
0 TRLR
` + "```" + `

1. The text MUST begin with ` + "`0 HEAD`" + ` (leading whitespace is allowed).
2. Every record starts with ` + "`0 @<id>@ `" + `. The id ends at the next ` + "`@`" + ` and is
   followed by exactly one space.
3. Every record needs a non-empty body after its id.
4. The trailer ` + "`0 TRLR`" + ` is not a record; it stays at the end of the last body.

A file that breaks rules 1-3 is rejected as a whole with one of
` + "`malformed_header`" + `, ` + "`malformed_record_boundary`" + ` or ` + "`unreadable_body`" + `.
Nothing from a rejected file is published; the previous version of the tree
stays in place.

## Classification

The first character of the id decides the collection:

| id starts with | collection |
|---|---|
| F | families |
| I | individuals |
| S | sources |
| anything else, and the header | others |

The check is case-sensitive: ` + "`@f1@`" + ` is an "other" record.

## Names

The first line beginning ` + "`1 NAME `" + ` is split on ` + "`/`" + ` with empty pieces dropped.

| NAME line | display name | surname |
|---|---|---|
| ` + "`John /Smith/`" + ` | ` + "`Smith John `" + ` | Smith |
| ` + "`John /Smith/ Jr`" + ` | ` + "`Smith John  Jr`" + ` | Smith |
| ` + "`/Madonna/`" + ` | ` + "`Madonna ?`" + ` | Madonna |
| ` + "`Madonna`" + ` | ` + "`? Madonna`" + ` | ? |
| none, or four or more pieces | ` + "`?`" + ` | not indexed |

Spacing inside the NAME value is kept verbatim.

## Families

Spouse surnames come from the first ` + "`1 HUSB `" + ` and ` + "`1 WIFE `" + ` lines:

- ` + "`noTAG`" + `: the family has no such line.
- ` + "`noINDI`" + `: the referenced individual has no indexed surname (missing,
  unnamed or with an unusable NAME line).

## Encoding

Files are read as UTF-8 (a BOM is ignored). Invalid UTF-8 is retried once as
Mac OS Roman when the server allows it; otherwise the file is rejected as
` + "`undecodable`" + `.

## Paths

Tree paths are relative to the library root, use forward slashes and must
end with ` + "`.ged`" + `.
`
