package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listSubjectsTool defines the list_subjects MCP tool.
var listSubjectsTool = mcp.NewTool("list_subjects",
	mcp.WithDescription("List the study subjects with their folders and files, in reading order."),
	mcp.WithString("subject",
		mcp.Description("Only list this subject key"),
	),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Get the markdown of one study document along with its previous and next files."),
	mcp.WithString("path",
		mcp.Description("Catalog path such as Java8-Plus/notes/Java8-Notes.md"),
	),
	mcp.WithString("subject",
		mcp.Description("Subject key, used with folder and index when path is not given"),
	),
	mcp.WithString("folder",
		mcp.Description("Folder kind"),
		mcp.Enum("notes", "questions", "quiz", "real-problems", "interview-questions"),
	),
	mcp.WithNumber("index",
		mcp.Description("Zero-based file index inside the folder"),
	),
)

// getOutlineTool defines the get_outline MCP tool.
var getOutlineTool = mcp.NewTool("get_outline",
	mcp.WithDescription("Get the table of contents of a study document."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Catalog path of the document"),
	),
)

// searchCatalogTool defines the search_catalog MCP tool.
var searchCatalogTool = mcp.NewTool("search_catalog",
	mcp.WithDescription("Search subject names, file names and document text. Returns matching files with a snippet."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Case-insensitive text to look for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)
