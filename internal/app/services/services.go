package services

// Services defined in this package:
// - AuthService: login, token refresh and profile operations
// - LeadService: the pipeline, trials, followups and WhatsApp links
// - StudentService: conversion, public join/renew forms, roster reads
// - BatchService: batch scheduling and coach assignment
// - AttendanceService: roll calls and attendance history
// - PaymentService: UPI payment records, UTR submission and verification
// - StagingService: the bulk action approval queue
// - ReportService: funnel, revenue and attendance reporting with export
// - CommandCenterService: the operations dashboard
// - CenterService: academy locations
// - UserService: staff accounts
// - NotificationService: in-app notifications
