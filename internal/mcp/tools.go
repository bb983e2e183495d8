package mcp

import "github.com/mark3labs/mcp-go/mcp"

// uploadDocumentsTool defines the upload_documents MCP tool.
var uploadDocumentsTool = mcp.NewTool("upload_documents",
	mcp.WithDescription("Upload local PDF files for question answering. Replaces the current document list with the files the backend processed; all of them start selected."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("File paths, directories or glob patterns (** supported)"),
		mcp.WithStringItems(),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List the uploaded documents and whether each is selected for questions."),
)

// toggleDocumentTool defines the toggle_document MCP tool.
var toggleDocumentTool = mcp.NewTool("toggle_document",
	mcp.WithDescription("Flip whether one uploaded document is used to answer questions."),
	mcp.WithString("filename",
		mcp.Required(),
		mcp.Description("Filename as shown by list_documents"),
	),
)

// selectDocumentsTool defines the select_documents MCP tool.
var selectDocumentsTool = mcp.NewTool("select_documents",
	mcp.WithDescription("Select exactly the named documents and deselect all others."),
	mcp.WithArray("filenames",
		mcp.Required(),
		mcp.Description("Filenames as shown by list_documents"),
		mcp.WithStringItems(),
	),
)

// askQuestionTool defines the ask_question MCP tool.
var askQuestionTool = mcp.NewTool("ask_question",
	mcp.WithDescription("Ask a question about the selected documents. Returns the answer and the documents it cites."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
)
