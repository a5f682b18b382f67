package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Chat struct {
	Service domainChat.IChatUsecase
}

func InitRestChat(app fiber.Router, service domainChat.IChatUsecase) Chat {
	rest := Chat{Service: service}
	app.Get("/chats", rest.List)
	app.Get("/chats/:chat_id/messages", rest.Messages)
	app.Post("/chats/:chat_id/close", rest.Close)
	app.Post("/chats/:chat_id/assign", rest.Assign)
	app.Post("/chats/:chat_id/rate", rest.Rate)
	return rest
}

func (controller *Chat) List(c *fiber.Ctx) error {
	request := domainChat.ListChatsRequest{
		Status:       c.Query("status"),
		DepartmentID: c.Query("department_id"),
		Search:       c.Query("search"),
	}

	chats, err := controller.Service.ListChats(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch chats",
		Results: chats,
	})
}

func (controller *Chat) Messages(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	request := domainChat.GetChatMessagesRequest{
		ChatID: c.Params("chat_id"),
		Limit:  limit,
	}

	messages, err := controller.Service.GetChatMessages(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch messages",
		Results: messages,
	})
}

func (controller *Chat) Close(c *fiber.Ctx) error {
	request := domainChat.CloseChatRequest{ChatID: c.Params("chat_id")}

	chat, err := controller.Service.CloseChat(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success close chat",
		Results: chat,
	})
}

func (controller *Chat) Rate(c *fiber.Ctx) error {
	var request domainChat.RateChatRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ChatID = c.Params("chat_id")

	chat, err := controller.Service.RateChat(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success rate chat",
		Results: chat,
	})
}

func (controller *Chat) Assign(c *fiber.Ctx) error {
	var request domainChat.AssignChatRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ChatID = c.Params("chat_id")

	chat, err := controller.Service.AssignChat(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success assign chat",
		Results: chat,
	})
}
